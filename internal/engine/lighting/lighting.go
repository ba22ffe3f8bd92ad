// Package lighting holds the scene lights and their shader-ready form.
package lighting

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/glbstudio/pkg/math"
)

// Ambient light lights every surface equally.
type Ambient struct {
	Color     colorful.Color
	Intensity float64
}

// Directional light shines from Position toward the origin.
type Directional struct {
	Color     colorful.Color
	Intensity float64
	Position  math.Vec3
}

// Direction returns the normalized vector pointing from the surface toward
// the light.
func (d Directional) Direction() math.Vec3 {
	if d.Position == (math.Vec3{}) {
		return math.Vec3{Y: 1}
	}
	return d.Position.Normalize()
}

// Rig is the light setup of the viewer.
type Rig struct {
	Ambient     Ambient
	Directional Directional
}

// DefaultRig returns white ambient 0.5 and a white directional light of
// intensity 1 at (5, 5, 5).
func DefaultRig() Rig {
	white := colorful.Color{R: 1, G: 1, B: 1}
	return Rig{
		Ambient:     Ambient{Color: white, Intensity: 0.5},
		Directional: Directional{Color: white, Intensity: 1, Position: math.Vec3{X: 5, Y: 5, Z: 5}},
	}
}

// Uniforms is the rig flattened for GPU upload.
type Uniforms struct {
	Ambient      [3]float32 // Color premultiplied by intensity
	LightColor   [3]float32 // Color premultiplied by intensity
	LightDir     [3]float32 // Toward the light
	HasDirection bool
}

// Uniforms converts the rig for upload.
func (r Rig) Uniforms() Uniforms {
	return Uniforms{
		Ambient:      scaled(r.Ambient.Color, r.Ambient.Intensity),
		LightColor:   scaled(r.Directional.Color, r.Directional.Intensity),
		LightDir:     r.Directional.Direction().Float32(),
		HasDirection: r.Directional.Intensity > 0,
	}
}

func scaled(c colorful.Color, k float64) [3]float32 {
	return [3]float32{float32(c.R * k), float32(c.G * k), float32(c.B * k)}
}
