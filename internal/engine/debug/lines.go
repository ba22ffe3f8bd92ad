// Package debug builds line geometry for overlays: the ground grid,
// skeleton helpers and bounding boxes.
package debug

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/glbstudio/pkg/math"
)

// LineVertex is one endpoint of a line segment.
type LineVertex struct {
	X, Y, Z float32 // Position
	R, G, B float32 // Color
}

func vertex(p math.Vec3, c colorful.Color) LineVertex {
	return LineVertex{float32(p.X), float32(p.Y), float32(p.Z), float32(c.R), float32(c.G), float32(c.B)}
}

// Default grid colors.
var (
	GridCenterColor = colorful.Color{R: 0x44 / 255.0, G: 0x44 / 255.0, B: 0x44 / 255.0}
	GridColor       = colorful.Color{R: 0x88 / 255.0, G: 0x88 / 255.0, B: 0x88 / 255.0}
)

// GridLines generates a square grid on the y = 0 plane centered at the
// origin, with size/divisions spacing. The two center lines use
// centerColor.
func GridLines(size float64, divisions int, centerColor, color colorful.Color) []LineVertex {
	if divisions <= 0 || size <= 0 {
		return nil
	}
	step := size / float64(divisions)
	half := size / 2
	center := divisions / 2

	vertices := make([]LineVertex, 0, (divisions+1)*4)
	for i := 0; i <= divisions; i++ {
		k := -half + float64(i)*step
		c := color
		if i == center && divisions%2 == 0 {
			c = centerColor
		}
		vertices = append(vertices,
			vertex(math.Vec3{X: -half, Z: k}, c), vertex(math.Vec3{X: half, Z: k}, c),
			vertex(math.Vec3{X: k, Z: -half}, c), vertex(math.Vec3{X: k, Z: half}, c),
		)
	}
	return vertices
}

// BoxLineVertexCount is the number of vertices of a box wireframe
// (12 edges x 2).
const BoxLineVertexCount = 24

// BoxLines creates a wireframe for the box [min, max], expanded by padding
// on all sides.
func BoxLines(min, max math.Vec3, padding float64, c colorful.Color) []LineVertex {
	pad := math.Vec3{X: padding, Y: padding, Z: padding}
	lo, hi := min.Min(max).Sub(pad), min.Max(max).Add(pad)

	corner := func(x, y, z bool) math.Vec3 {
		p := lo
		if x {
			p.X = hi.X
		}
		if y {
			p.Y = hi.Y
		}
		if z {
			p.Z = hi.Z
		}
		return p
	}

	var out []LineVertex
	edge := func(a, b math.Vec3) {
		out = append(out, vertex(a, c), vertex(b, c))
	}
	for _, y := range []bool{false, true} {
		// Bottom and top faces
		edge(corner(false, y, false), corner(true, y, false))
		edge(corner(true, y, false), corner(true, y, true))
		edge(corner(true, y, true), corner(false, y, true))
		edge(corner(false, y, true), corner(false, y, false))
	}
	// Vertical edges
	for _, xz := range [][2]bool{{false, false}, {true, false}, {true, true}, {false, true}} {
		edge(corner(xz[0], false, xz[1]), corner(xz[0], true, xz[1]))
	}
	return out
}
