package scene

import (
	"image"
	stdmath "math"

	"github.com/Faultbox/glbstudio/pkg/math"
)

// Texture is a decoded image with a UV transform.
type Texture struct {
	resource

	Name  string
	Image *image.RGBA

	Repeat   math.Vec2
	Offset   math.Vec2
	Rotation float64
	Center   math.Vec2

	version int
}

// NewTexture creates a texture with an identity UV transform.
func NewTexture(name string, img *image.RGBA) *Texture {
	return &Texture{Name: name, Image: img, Repeat: math.Vec2{X: 1, Y: 1}}
}

// Version increases on every MarkChanged.
func (t *Texture) Version() int {
	return t.version
}

// MarkChanged flags the texture for re-upload.
func (t *Texture) MarkChanged() {
	t.version++
}

// UVTransform returns the column-major 3x3 matrix applied to texture
// coordinates: scale by Repeat, rotate by Rotation around Center, then
// translate by Offset.
func (t *Texture) UVTransform() [9]float32 {
	c, s := stdmath.Cos(t.Rotation), stdmath.Sin(t.Rotation)
	sx, sy := t.Repeat.X, t.Repeat.Y
	cx, cy := t.Center.X, t.Center.Y

	m00, m01, m02 := sx*c, sx*s, -sx*(c*cx+s*cy)+cx+t.Offset.X
	m10, m11, m12 := -sy*s, sy*c, -sy*(-s*cx+c*cy)+cy+t.Offset.Y

	return [9]float32{
		float32(m00), float32(m10), 0,
		float32(m01), float32(m11), 0,
		float32(m02), float32(m12), 1,
	}
}
