// Package binding pushes UI-edited parameters onto the live scene graph:
// node transforms, material parameters and texture overrides, texture UV
// transforms and skeleton visibility. Every binder is one-directional and
// idempotent, and unmatched names are ignored.
package binding

import (
	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/internal/viewer/introspect"
)

// ApplyTransform sets visibility, position, Euler rotation and uniform scale
// of one node.
func ApplyTransform(n *scene.Node, t introspect.NodeTransform) {
	n.Visible = t.Visible
	n.Position = t.Position
	n.SetEuler(t.Rotation)
	n.SetUniformScale(t.Scale)
}

// ApplyTransforms applies each entry to every node under root carrying that
// name. Nodes that share a name all receive the transform.
func ApplyTransforms(root *scene.Node, transforms map[string]introspect.NodeTransform) {
	if root == nil || len(transforms) == 0 {
		return
	}
	root.Traverse(func(n *scene.Node) {
		if t, ok := transforms[n.Name]; ok && n.Name != "" {
			ApplyTransform(n, t)
		}
	})
}
