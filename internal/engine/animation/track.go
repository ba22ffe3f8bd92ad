// Package animation samples keyframed node transforms and exposes playback
// through Action handles owned by a Mixer.
package animation

import (
	"sort"

	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/pkg/math"
)

// Path is the node property a track animates.
type Path int

const (
	PathTranslation Path = iota
	PathRotation
	PathScale
)

// Interpolation is the keyframe interpolation mode.
type Interpolation int

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep
	InterpolationCubicSpline
)

// Track animates one property of one node.
// Values holds Components() floats per keyframe; cubic-spline tracks store
// in-tangent, value and out-tangent per keyframe.
type Track struct {
	Target        *scene.Node
	Path          Path
	Interpolation Interpolation
	Times         []float64
	Values        []float64
}

// Components returns the number of floats per sampled value.
func (t *Track) Components() int {
	if t.Path == PathRotation {
		return 4
	}
	return 3
}

// Duration returns the time of the last keyframe.
func (t *Track) Duration() float64 {
	if len(t.Times) == 0 {
		return 0
	}
	return t.Times[len(t.Times)-1]
}

// Apply samples the track at time and writes the result to the target.
func (t *Track) Apply(time float64) {
	if t.Target == nil || len(t.Times) == 0 {
		return
	}
	v := t.Sample(time)
	switch t.Path {
	case PathTranslation:
		t.Target.Position = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	case PathScale:
		t.Target.Scale = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	case PathRotation:
		t.Target.Rotation = math.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]}.Normalize()
	}
}

// Sample returns the interpolated value at time, clamped to the key range.
func (t *Track) Sample(time float64) []float64 {
	n := len(t.Times)
	if n == 1 || time <= t.Times[0] {
		return t.value(0)
	}
	if time >= t.Times[n-1] {
		return t.value(n - 1)
	}

	// First key strictly after time
	next := sort.Search(n, func(i int) bool { return t.Times[i] > time })
	prev := next - 1
	dt := t.Times[next] - t.Times[prev]
	alpha := 0.0
	if dt > 0 {
		alpha = (time - t.Times[prev]) / dt
	}

	switch t.Interpolation {
	case InterpolationStep:
		return t.value(prev)
	case InterpolationCubicSpline:
		return t.cubic(prev, next, alpha, dt)
	}

	a, b := t.value(prev), t.value(next)
	if t.Path == PathRotation {
		q := quat(a).Slerp(quat(b), alpha)
		return []float64{q.X, q.Y, q.Z, q.W}
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + (b[i]-a[i])*alpha
	}
	return out
}

// value returns the keyframe value at index i, skipping tangents for cubic
// tracks.
func (t *Track) value(i int) []float64 {
	c := t.Components()
	if t.Interpolation == InterpolationCubicSpline {
		start := i*3*c + c
		return t.Values[start : start+c]
	}
	return t.Values[i*c : i*c+c]
}

// cubic evaluates the glTF cubic Hermite spline between keys prev and next.
func (t *Track) cubic(prev, next int, s, dt float64) []float64 {
	c := t.Components()
	stride := 3 * c
	p0 := t.Values[prev*stride+c : prev*stride+2*c]
	m0 := t.Values[prev*stride+2*c : prev*stride+3*c]
	a1 := t.Values[next*stride : next*stride+c]
	p1 := t.Values[next*stride+c : next*stride+2*c]

	s2, s3 := s*s, s*s*s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	out := make([]float64, c)
	for i := 0; i < c; i++ {
		out[i] = h00*p0[i] + h10*dt*m0[i] + h01*p1[i] + h11*dt*a1[i]
	}
	if t.Path == PathRotation {
		q := quat(out).Normalize()
		out = []float64{q.X, q.Y, q.Z, q.W}
	}
	return out
}

func quat(v []float64) math.Quat {
	return math.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]}
}
