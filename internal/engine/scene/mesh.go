package scene

import (
	"github.com/Faultbox/glbstudio/internal/engine/model"
	"github.com/Faultbox/glbstudio/pkg/math"
)

// MaterialHost is the view of a node that renders geometry with materials.
type MaterialHost interface {
	Node() *Node
	Geometry() *model.Geometry
	SetGeometry(g *model.Geometry)
	// Materials returns the material list, one entry per geometry group.
	// The slice must not be modified; use SetMaterials.
	Materials() []*Material
	SetMaterials(materials []*Material)
	// WorldPositions returns every vertex in world space in the current
	// pose.
	WorldPositions() []math.Vec3
}

// SkinnedView is the view of a mesh deformed by a skeleton.
type SkinnedView interface {
	MaterialHost
	Skin() *Skin
	Skeleton() *Skeleton
	// SkinnedPositions returns the deformed world-space position of every
	// vertex in the current pose.
	SkinnedPositions() []math.Vec3
}

// Mesh is the renderable payload of a mesh node.
type Mesh struct {
	node      *Node
	geometry  *model.Geometry
	materials []*Material
	skin      *Skin
}

func (m *Mesh) Node() *Node {
	return m.node
}

func (m *Mesh) Geometry() *model.Geometry {
	return m.geometry
}

func (m *Mesh) SetGeometry(g *model.Geometry) {
	m.geometry = g
}

func (m *Mesh) Materials() []*Material {
	return m.materials
}

func (m *Mesh) SetMaterials(materials []*Material) {
	m.materials = materials
}

func (m *Mesh) Skin() *Skin {
	return m.skin
}

func (m *Mesh) Skeleton() *Skeleton {
	if m.skin == nil {
		return nil
	}
	return m.skin.Skeleton
}

func (m *Mesh) WorldPositions() []math.Vec3 {
	if m.skin != nil {
		return m.SkinnedPositions()
	}
	world := m.node.WorldMatrix()
	out := make([]math.Vec3, len(m.geometry.Vertices))
	for i, v := range m.geometry.Vertices {
		out[i] = world.TransformPoint(vec3(v.Position))
	}
	return out
}

func (m *Mesh) SkinnedPositions() []math.Vec3 {
	world := m.node.WorldMatrix()
	joints := m.skin.JointMatrices()
	out := make([]math.Vec3, len(m.geometry.Vertices))
	for i, v := range m.geometry.Vertices {
		p, ok := m.skin.Apply(joints, v)
		if !ok {
			p = world.TransformPoint(vec3(v.Position))
		}
		out[i] = p
	}
	return out
}

func vec3(p [3]float32) math.Vec3 {
	return math.Vec3{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}
