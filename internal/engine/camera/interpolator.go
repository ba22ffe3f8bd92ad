package camera

import (
	gomath "math"

	"github.com/Faultbox/glbstudio/pkg/math"
)

// State is the interpolated part of a camera.
type State struct {
	Position math.Vec3
	FOV      float64
}

// Interpolator eases a camera toward a target state by a fixed fraction
// per frame. Once within Threshold on every component it snaps to the
// target and calls OnComplete exactly once per target.
type Interpolator struct {
	Factor    float64
	Threshold float64

	OnComplete func()

	target State
	active bool
}

// NewInterpolator returns an idle interpolator with the default factor
// 0.04 and threshold 0.01.
func NewInterpolator(onComplete func()) *Interpolator {
	return &Interpolator{Factor: 0.04, Threshold: 0.01, OnComplete: onComplete}
}

// SetTarget starts moving toward s, replacing any previous target.
func (i *Interpolator) SetTarget(s State) {
	i.target = s
	i.active = true
}

// Target returns the current target.
func (i *Interpolator) Target() State {
	return i.target
}

// Active reports whether a target is being approached.
func (i *Interpolator) Active() bool {
	return i.active
}

// Cancel stops without completing.
func (i *Interpolator) Cancel() {
	i.active = false
}

// Tick advances current one frame toward the target.
func (i *Interpolator) Tick(current State) State {
	if !i.active {
		return current
	}
	t := i.target
	next := State{
		Position: current.Position.Add(t.Position.Sub(current.Position).Scale(i.Factor)),
		FOV:      current.FOV + (t.FOV-current.FOV)*i.Factor,
	}

	d := t.Position.Sub(next.Position)
	if gomath.Abs(d.X) < i.Threshold && gomath.Abs(d.Y) < i.Threshold &&
		gomath.Abs(d.Z) < i.Threshold && gomath.Abs(t.FOV-next.FOV) < i.Threshold {
		i.active = false
		if i.OnComplete != nil {
			i.OnComplete()
		}
		return t
	}
	return next
}

// Apply ticks the camera in place. Returns true while still moving.
func (i *Interpolator) Apply(c *Camera) bool {
	if !i.active {
		return false
	}
	s := i.Tick(State{Position: c.Position, FOV: c.FOV})
	c.Position, c.FOV = s.Position, s.FOV
	return i.active
}
