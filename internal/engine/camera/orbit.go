package camera

import (
	gomath "math"

	"github.com/Faultbox/glbstudio/pkg/math"
)

// OrbitControls rotates and zooms a camera around its target from pointer
// input. Motion is damped: input accumulates and drains over frames.
type OrbitControls struct {
	Camera *Camera

	// Constraints
	MinDistance float64
	MaxDistance float64
	MinPolar    float64
	MaxPolar    float64

	// Sensitivity
	RotateSpeed     float64
	ZoomSensitivity float64
	DampingFactor   float64

	Enabled bool

	deltaTheta float64
	deltaPhi   float64
	scale      float64
}

// NewOrbitControls creates controls with default limits.
func NewOrbitControls(c *Camera) *OrbitControls {
	return &OrbitControls{
		Camera:          c,
		MinDistance:     1,
		MaxDistance:     100,
		MinPolar:        0.01,
		MaxPolar:        gomath.Pi - 0.01,
		RotateSpeed:     1,
		ZoomSensitivity: 0.1,
		DampingFactor:   0.05,
		Enabled:         true,
		scale:           1,
	}
}

// HandleDrag queues a rotation from a pointer drag. A drag across the full
// surface height turns the camera by a full circle.
func (o *OrbitControls) HandleDrag(deltaX, deltaY, surfaceHeight float64) {
	if !o.Enabled || surfaceHeight <= 0 {
		return
	}
	o.deltaTheta -= 2 * gomath.Pi * deltaX / surfaceHeight * o.RotateSpeed
	o.deltaPhi -= 2 * gomath.Pi * deltaY / surfaceHeight * o.RotateSpeed
}

// HandleZoom applies a scroll wheel step. Positive delta moves closer.
func (o *OrbitControls) HandleZoom(delta float64) {
	if !o.Enabled {
		return
	}
	o.scale *= gomath.Pow(1-o.ZoomSensitivity, delta)
}

// Reset drops pending motion.
func (o *OrbitControls) Reset() {
	o.deltaTheta, o.deltaPhi, o.scale = 0, 0, 1
}

// Update applies pending motion to the camera. Returns true if the camera
// moved noticeably.
func (o *OrbitControls) Update() bool {
	c := o.Camera
	offset := c.Position.Sub(c.Target)
	radius := offset.Length()
	if radius == 0 {
		return false
	}
	theta := gomath.Atan2(offset.X, offset.Z)
	phi := gomath.Acos(clamp(offset.Y/radius, -1, 1))

	damping := 1.0
	if o.DampingFactor > 0 {
		damping = o.DampingFactor
	}
	theta += o.deltaTheta * damping
	phi = clamp(phi+o.deltaPhi*damping, o.MinPolar, o.MaxPolar)
	radius = clamp(radius*o.scale, o.MinDistance, o.MaxDistance)

	sinPhi := gomath.Sin(phi)
	next := c.Target.Add(math.Vec3{
		X: radius * sinPhi * gomath.Sin(theta),
		Y: radius * gomath.Cos(phi),
		Z: radius * sinPhi * gomath.Cos(theta),
	})
	moved := next.DistanceSq(c.Position) > 1e-12
	c.Position = next

	if o.DampingFactor > 0 {
		o.deltaTheta *= 1 - o.DampingFactor
		o.deltaPhi *= 1 - o.DampingFactor
	} else {
		o.deltaTheta, o.deltaPhi = 0, 0
	}
	o.scale = 1
	return moved
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
