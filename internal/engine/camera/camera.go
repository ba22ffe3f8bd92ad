// Package camera provides the perspective camera, orbit controls and
// smooth camera transitions.
package camera

import (
	gomath "math"

	"github.com/Faultbox/glbstudio/pkg/math"
)

// Camera is a perspective camera looking at a target point.
type Camera struct {
	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3

	FOV    float64 // Vertical field of view in degrees
	Aspect float64 // Width / height
	Near   float64
	Far    float64
}

// New creates a camera at position looking at the origin.
func New(position math.Vec3, fov float64) *Camera {
	return &Camera{
		Position: position,
		Up:       math.Vec3{Y: 1},
		FOV:      fov,
		Aspect:   1,
		Near:     0.1,
		Far:      1000,
	}
}

// SetViewport updates the aspect ratio from the surface size.
func (c *Camera) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float64(width) / float64(height)
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *Camera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Target, c.Up)
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FOV*gomath.Pi/180, c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// Forward returns the normalized viewing direction.
func (c *Camera) Forward() math.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// Project maps a world point to pixel coordinates in a width x height
// surface with the origin at the top left. visible is false for points
// behind the camera or outside the clip volume.
func (c *Camera) Project(p math.Vec3, width, height float64) (x, y float64, visible bool) {
	clip := c.ViewProjection().MulVec4(math.Vec4{p.X, p.Y, p.Z, 1})
	if clip[3] <= 0 {
		return 0, 0, false
	}
	ndcX, ndcY, ndcZ := clip[0]/clip[3], clip[1]/clip[3], clip[2]/clip[3]
	x = (ndcX + 1) / 2 * width
	y = (1 - ndcY) / 2 * height
	visible = ndcX >= -1 && ndcX <= 1 && ndcY >= -1 && ndcY <= 1 && ndcZ >= -1 && ndcZ <= 1
	return x, y, visible
}
