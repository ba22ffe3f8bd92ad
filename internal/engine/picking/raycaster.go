package picking

import (
	gomath "math"
	"sort"

	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/pkg/math"
)

// edgeEpsilon merges hits on one mesh that are this close along the ray.
const edgeEpsilon = 1e-9

// Hit is a ray intersection with a mesh.
type Hit struct {
	Distance float64
	Point    math.Vec3
	Node     *scene.Node
	// Face holds the vertex indices of the hit triangle.
	Face [3]uint32
}

// Source tells which stage of Pick produced the point.
type Source int

const (
	SourceModel Source = iota
	SourceScene
	SourceGround
)

func (s Source) String() string {
	switch s {
	case SourceModel:
		return "model"
	case SourceScene:
		return "scene"
	default:
		return "ground"
	}
}

// Raycaster intersects a ray with visible meshes. Skinned meshes are tested
// in their current pose.
type Raycaster struct {
	Ray  Ray
	Near float64
	Far  float64
}

// NewRaycaster creates a raycaster without distance limits.
func NewRaycaster(r Ray) *Raycaster {
	return &Raycaster{Ray: r, Far: 1e12}
}

// Intersect returns hits against root and its visible descendants sorted
// by distance. World matrices must be current.
func (rc *Raycaster) Intersect(root *scene.Node) []Hit {
	var hits []Hit
	if root == nil {
		return hits
	}
	root.TraverseVisible(func(n *scene.Node) {
		host, ok := n.AsMaterialHost()
		if !ok || host.Geometry() == nil {
			return
		}
		hits = append(hits, rc.intersectMesh(host)...)
	})
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

func (rc *Raycaster) intersectMesh(host scene.MaterialHost) []Hit {
	positions := host.WorldPositions()
	if len(positions) == 0 {
		return nil
	}
	if _, ok := rc.Ray.IntersectAABB(BoundsOf(positions)); !ok {
		return nil
	}

	doubleSided := false
	for _, m := range host.Materials() {
		if m != nil && m.DoubleSided {
			doubleSided = true
		}
	}

	var hits []Hit
	host.Geometry().Triangles(func(a, b, c uint32) {
		t, ok := rc.Ray.IntersectTriangle(positions[a], positions[b], positions[c], doubleSided)
		if !ok || t < rc.Near || t > rc.Far {
			return
		}
		// A ray through a shared edge or vertex hits every adjacent face.
		for _, h := range hits {
			if gomath.Abs(h.Distance-t) < edgeEpsilon {
				return
			}
		}
		hits = append(hits, Hit{
			Distance: t,
			Point:    rc.Ray.At(t),
			Node:     host.Node(),
			Face:     [3]uint32{a, b, c},
		})
	})
	return hits
}

// Pick resolves a pointer ray to a world point. It tries the model first,
// then the whole scene, then the ground plane y = 0. A point is always
// returned: a ray that never reaches the ground yields the origin dropped
// onto the plane.
func Pick(r Ray, model, world *scene.Node) (math.Vec3, Source) {
	rc := NewRaycaster(r)
	if hits := rc.Intersect(model); len(hits) > 0 {
		return hits[0].Point, SourceModel
	}
	if world != nil && world != model {
		if hits := rc.Intersect(world); len(hits) > 0 {
			return hits[0].Point, SourceScene
		}
	}
	if p, ok := r.IntersectPlaneY(0); ok {
		return p, SourceGround
	}
	return math.Vec3{X: r.Origin.X, Z: r.Origin.Z}, SourceGround
}
