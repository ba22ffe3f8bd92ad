package binding

import (
	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/internal/viewer/introspect"
	"github.com/Faultbox/glbstudio/pkg/math"
)

// TextureTransform is the UV placement of a texture. Rotation is in
// radians.
type TextureTransform struct {
	Repeat   math.Vec2 `yaml:"repeat"`
	Offset   math.Vec2 `yaml:"offset"`
	Rotation float64   `yaml:"rotation"`
}

// DefaultTextureTransform leaves UVs unchanged.
func DefaultTextureTransform() TextureTransform {
	return TextureTransform{Repeat: math.Vec2{X: 1, Y: 1}}
}

// ApplyTextureTransform sets the UV transform of every texture named name
// in any slot of any material under root.
func ApplyTextureTransform(root *scene.Node, name string, t TextureTransform) {
	if root == nil || name == "" {
		return
	}
	forEachMaterial(root, nil, func(m *scene.Material) {
		for _, tex := range m.Textures() {
			if tex.Name == name {
				tex.Repeat = t.Repeat
				tex.Offset = t.Offset
				tex.Rotation = t.Rotation
			}
		}
	})
}

// ApplySkeletonVisibility shows or hides every bone of the skeletons named
// filter, or of all skeletons when filter is empty.
func ApplySkeletonVisibility(root *scene.Node, filter string, visible bool) {
	for _, ref := range introspect.MatchSkeletons(root, filter) {
		for _, bone := range ref.Skeleton.Bones {
			bone.Visible = visible
		}
	}
}

// forEachMaterial calls fn once for every distinct material on a mesh
// under root. Meshes for which skip returns true are left out.
func forEachMaterial(root *scene.Node, skip func(*scene.Node) bool, fn func(*scene.Material)) {
	seen := make(map[*scene.Material]bool)
	root.Traverse(func(n *scene.Node) {
		host, ok := n.AsMaterialHost()
		if !ok || (skip != nil && skip(n)) {
			return
		}
		for _, m := range host.Materials() {
			if m == nil || seen[m] {
				continue
			}
			seen[m] = true
			fn(m)
		}
	})
}
