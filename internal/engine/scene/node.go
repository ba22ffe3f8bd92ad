// Package scene is the in-memory scene graph of a loaded model: nodes with
// local transforms, meshes with materials, bones and skeletons.
//
// Traversal code asks a node for a capability (AsMaterialHost, AsSkinned)
// instead of probing for optional fields.
package scene

import (
	"github.com/Faultbox/glbstudio/internal/engine/model"
	"github.com/Faultbox/glbstudio/pkg/math"
)

// Kind identifies what a node represents.
type Kind int

const (
	KindGroup Kind = iota
	KindMesh
	KindSkinnedMesh
	KindBone
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "Mesh"
	case KindSkinnedMesh:
		return "SkinnedMesh"
	case KindBone:
		return "Bone"
	default:
		return "Group"
	}
}

// Node is an element of the scene graph.
// Names are not unique: lookups by name may return several nodes.
type Node struct {
	Name    string
	Kind    Kind
	Visible bool

	// Local transform. Rotation is kept as a quaternion; Euler and SetEuler
	// convert using XYZ order.
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3

	mesh     *Mesh
	parent   *Node
	children []*Node
	world    math.Mat4
}

// NewGroup creates an empty transform node.
func NewGroup(name string) *Node {
	return &Node{
		Name:     name,
		Kind:     KindGroup,
		Visible:  true,
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3One,
		world:    math.Identity(),
	}
}

// NewBone creates a bone node.
func NewBone(name string) *Node {
	n := NewGroup(name)
	n.Kind = KindBone
	return n
}

// NewMesh creates a static mesh node.
func NewMesh(name string, geometry *model.Geometry, materials ...*Material) *Node {
	n := NewGroup(name)
	n.Kind = KindMesh
	n.mesh = &Mesh{node: n, geometry: geometry, materials: materials}
	return n
}

// NewSkinnedMesh creates a mesh deformed by the given skin.
func NewSkinnedMesh(name string, geometry *model.Geometry, skin *Skin, materials ...*Material) *Node {
	n := NewMesh(name, geometry, materials...)
	n.Kind = KindSkinnedMesh
	n.mesh.skin = skin
	return n
}

// AsMaterialHost returns the mesh view of a node that renders geometry.
func (n *Node) AsMaterialHost() (MaterialHost, bool) {
	if n.mesh == nil {
		return nil, false
	}
	return n.mesh, true
}

// AsSkinned returns the skinned view of a node bound to a skeleton.
func (n *Node) AsSkinned() (SkinnedView, bool) {
	if n.mesh == nil || n.mesh.skin == nil {
		return nil, false
	}
	return n.mesh, true
}

// IsBone reports whether the node is a skeleton bone.
func (n *Node) IsBone() bool {
	return n.Kind == KindBone
}

// Parent returns the parent node or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Add attaches children, detaching them from any previous parent.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

// Remove detaches a direct child. Returns false if child is not a child of n.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Traverse visits n and all descendants depth-first, pre-order.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// TraverseVisible is Traverse restricted to visible subtrees.
func (n *Node) TraverseVisible(fn func(*Node)) {
	if !n.Visible {
		return
	}
	fn(n)
	for _, c := range n.children {
		c.TraverseVisible(fn)
	}
}

// FindAll returns every node in the subtree with the given name.
func (n *Node) FindAll(name string) []*Node {
	var out []*Node
	n.Traverse(func(c *Node) {
		if c.Name == name {
			out = append(out, c)
		}
	})
	return out
}

// Find returns the first node in pre-order with the given name, or nil.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// IsAncestorOf reports whether other is n or lies in n's subtree.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Euler returns the local rotation as XYZ Euler angles in radians.
func (n *Node) Euler() math.Vec3 {
	return n.Rotation.Euler()
}

// SetEuler sets the local rotation from XYZ Euler angles in radians.
func (n *Node) SetEuler(e math.Vec3) {
	n.Rotation = math.QuatFromEuler(e)
}

// SetUniformScale broadcasts s to all three scale axes.
func (n *Node) SetUniformScale(s float64) {
	n.Scale = math.Vec3{X: s, Y: s, Z: s}
}

// LocalMatrix composes the local transform.
func (n *Node) LocalMatrix() math.Mat4 {
	return math.Compose(n.Position, n.Rotation, n.Scale)
}

// SetLocalMatrix decomposes m into position, rotation and scale.
func (n *Node) SetLocalMatrix(m math.Mat4) {
	n.Position, n.Rotation, n.Scale = m.Decompose()
}

// WorldMatrix returns the world transform computed by the last
// UpdateWorldMatrix covering this node.
func (n *Node) WorldMatrix() math.Mat4 {
	return n.world
}

// WorldPosition returns the translation of the world matrix.
func (n *Node) WorldPosition() math.Vec3 {
	return n.world.Position()
}

// UpdateWorldMatrix recomputes world matrices for n and its subtree using
// the parent's current world matrix.
func (n *Node) UpdateWorldMatrix() {
	if n.parent != nil {
		n.world = n.parent.world.Mul(n.LocalMatrix())
	} else {
		n.world = n.LocalMatrix()
	}
	for _, c := range n.children {
		c.UpdateWorldMatrix()
	}
}

// UpdateWorldMatrixWithParents refreshes the ancestor chain first, then the
// subtree of n.
func (n *Node) UpdateWorldMatrixWithParents() {
	var chain []*Node
	for p := n.parent; p != nil; p = p.parent {
		chain = append(chain, p)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		p := chain[i]
		if p.parent != nil {
			p.world = p.parent.world.Mul(p.LocalMatrix())
		} else {
			p.world = p.LocalMatrix()
		}
	}
	n.UpdateWorldMatrix()
}
