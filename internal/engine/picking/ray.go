// Package picking provides ray casting against the scene graph.
package picking

import (
	gomath "math"

	"github.com/Faultbox/glbstudio/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// Rect is the on-screen rectangle of the render surface in pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// NDC converts a pointer position to normalized device coordinates using
// the surface rectangle. Y points up.
func (r Rect) NDC(px, py float64) (x, y float64) {
	x = (px-r.X)/r.Width*2 - 1
	y = -(py-r.Y)/r.Height*2 + 1
	return x, y
}

// ScreenToRay converts pointer coordinates to a world-space ray.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(px, py float64, surface Rect, invViewProj math.Mat4) Ray {
	ndcX, ndcY := surface.NDC(px, py)

	// Unproject near and far points
	near := invViewProj.TransformPoint(math.Vec3{X: ndcX, Y: ndcY, Z: -1})
	far := invViewProj.TransformPoint(math.Vec3{X: ndcX, Y: ndcY, Z: 1})

	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlane intersects the ray with the plane through point with the
// given normal. Returns the distance along the ray.
func (r Ray) IntersectPlane(point, normal math.Vec3) (t float64, ok bool) {
	denom := normal.Dot(r.Direction)
	if gomath.Abs(denom) < 1e-9 {
		return 0, false // Ray parallel to plane
	}
	t = point.Sub(r.Origin).Dot(normal) / denom
	if t < 0 {
		return 0, false // Intersection behind ray origin
	}
	return t, true
}

// IntersectPlaneY intersects the ray with a horizontal plane at height y.
func (r Ray) IntersectPlaneY(y float64) (math.Vec3, bool) {
	t, ok := r.IntersectPlane(math.Vec3{Y: y}, math.Vec3{Y: 1})
	if !ok {
		return math.Vec3{}, false
	}
	p := r.At(t)
	p.Y = y
	return p, true
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float64, hit bool) {
	tmin, tmax := gomath.Inf(-1), gomath.Inf(1)
	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float64{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float64{box.Max.X, box.Max.Y, box.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = gomath.Max(tmin, t1)
		tmax = gomath.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectTriangle implements Möller-Trumbore. Back faces (clockwise as
// seen from the ray origin) are ignored unless doubleSided is set.
func (r Ray) IntersectTriangle(a, b, c math.Vec3, doubleSided bool) (t float64, ok bool) {
	const eps = 1e-10
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	h := r.Direction.Cross(edge2)
	det := edge1.Dot(h)

	if det > -eps && det < eps {
		return 0, false
	}
	if det < 0 && !doubleSided {
		return 0, false
	}

	inv := 1 / det
	s := r.Origin.Sub(a)
	u := inv * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(edge1)
	v := inv * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = inv * edge2.Dot(q)
	if t < eps {
		return 0, false
	}
	return t, true
}

// NewAABB creates an AABB from two corners in any order.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

// BoundsOf returns the box enclosing points.
func BoundsOf(points []math.Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}
	return box
}
