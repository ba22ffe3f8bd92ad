// Package introspect discovers the names a loaded model exposes to the
// control UI: nodes, skeletons, materials and textures, plus the initial
// transform of every named node.
package introspect

import (
	"fmt"

	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/pkg/math"
)

// NodeTransform is the editable transform of a named node. Rotation holds
// XYZ Euler angles in radians; Scale is uniform.
type NodeTransform struct {
	Visible  bool      `yaml:"visible"`
	Position math.Vec3 `yaml:"position"`
	Rotation math.Vec3 `yaml:"rotation"`
	Scale    float64   `yaml:"scale"`
}

// DefaultTransform is the transform of a node without a snapshot.
func DefaultTransform() NodeTransform {
	return NodeTransform{Visible: true, Scale: 1}
}

// Snapshot captures the current local transform of n. The uniform scale is
// the mean of the three scale axes.
func Snapshot(n *scene.Node) NodeTransform {
	return NodeTransform{
		Visible:  n.Visible,
		Position: n.Position,
		Rotation: n.Euler(),
		Scale:    n.Scale.Mean(),
	}
}

// Result holds everything discovered in one pass over a scene.
type Result struct {
	SkeletonNames     []string
	MaterialNames     []string
	TextureNames      []string
	NodeNames         []string
	InitialTransforms map[string]NodeTransform
}

// Transform returns the initial transform of name, or the default one.
func (r Result) Transform(name string) NodeTransform {
	if t, ok := r.InitialTransforms[name]; ok {
		return t
	}
	return DefaultTransform()
}

// SkeletonRef is a distinct skeleton with its display name and the skinned
// meshes bound to it.
type SkeletonRef struct {
	Name     string
	Skeleton *scene.Skeleton
	Meshes   []scene.SkinnedView
}

// Skeletons returns every distinct skeleton with at least one bone, in
// discovery order. A skeleton is named after its root bone, then after the
// first mesh bound to it, then Skeleton_<index>.
func Skeletons(root *scene.Node) []SkeletonRef {
	var refs []SkeletonRef
	if root == nil {
		return refs
	}
	seen := make(map[*scene.Skeleton]int)

	root.Traverse(func(n *scene.Node) {
		view, ok := n.AsSkinned()
		if !ok {
			return
		}
		skel := view.Skeleton()
		if skel == nil || len(skel.Bones) == 0 {
			return
		}
		if i, ok := seen[skel]; ok {
			refs[i].Meshes = append(refs[i].Meshes, view)
			return
		}
		seen[skel] = len(refs)
		refs = append(refs, SkeletonRef{
			Name:     skeletonName(skel, n.Name, len(refs)),
			Skeleton: skel,
			Meshes:   []scene.SkinnedView{view},
		})
	})
	return refs
}

func skeletonName(skel *scene.Skeleton, meshName string, index int) string {
	if root := skel.RootBone(); root != nil && root.Name != "" {
		return root.Name
	}
	if meshName != "" {
		return meshName
	}
	return fmt.Sprintf("Skeleton_%d", index)
}

// MatchSkeletons returns the skeletons named filter, or all of them when
// filter is empty.
func MatchSkeletons(root *scene.Node, filter string) []SkeletonRef {
	refs := Skeletons(root)
	if filter == "" {
		return refs
	}
	out := refs[:0]
	for _, r := range refs {
		if r.Name == filter {
			out = append(out, r)
		}
	}
	return out
}

// Introspect walks root once, depth-first, and collects names. Nodes that
// share a name are listed once; the last one visited provides the initial
// transform. The scene is not modified.
func Introspect(root *scene.Node) Result {
	res := Result{InitialTransforms: make(map[string]NodeTransform)}
	if root == nil {
		return res
	}

	materials := newNameSet()
	textures := newNameSet()
	nodes := newNameSet()

	root.Traverse(func(n *scene.Node) {
		if host, ok := n.AsMaterialHost(); ok {
			for _, m := range host.Materials() {
				if m == nil {
					continue
				}
				materials.add(m.Name)
				for _, t := range m.Textures() {
					textures.add(t.Name)
				}
			}
		}

		nodes.add(n.Name)
		if n.Name != "" {
			res.InitialTransforms[n.Name] = Snapshot(n)
		}
	})

	skeletons := newNameSet()
	for _, ref := range Skeletons(root) {
		skeletons.add(ref.Name)
	}

	res.SkeletonNames = skeletons.names
	res.MaterialNames = materials.names
	res.TextureNames = textures.names
	res.NodeNames = nodes.names
	return res
}

// nameSet keeps non-empty names in first-seen order.
type nameSet struct {
	seen  map[string]bool
	names []string
}

func newNameSet() *nameSet {
	return &nameSet{seen: make(map[string]bool), names: []string{}}
}

// add records name and reports whether it was new.
func (s *nameSet) add(name string) bool {
	if name == "" || s.seen[name] {
		return false
	}
	s.seen[name] = true
	s.names = append(s.names, name)
	return true
}
