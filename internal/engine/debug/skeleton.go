package debug

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/pkg/math"
)

// SkeletonLines connects every bone under root to its parent bone.
// Positions are expressed in the space of helperMatrix, so the result is
// drawn with helperMatrix as its model matrix. World matrices must be
// current.
func SkeletonLines(root *scene.Node, helperMatrix math.Mat4, c colorful.Color) []LineVertex {
	if root == nil {
		return nil
	}
	inv := helperMatrix.Inverse()

	var out []LineVertex
	root.Traverse(func(n *scene.Node) {
		p := n.Parent()
		if !n.IsBone() || p == nil || !p.IsBone() {
			return
		}
		out = append(out,
			vertex(inv.TransformPoint(p.WorldPosition()), c),
			vertex(inv.TransformPoint(n.WorldPosition()), c),
		)
	})
	return out
}
