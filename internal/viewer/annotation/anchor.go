package annotation

import (
	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/pkg/math"
)

// bones visits every bone of every distinct skeleton bound under root.
func bones(root *scene.Node, fn func(*scene.Node) bool) {
	if root == nil {
		return
	}
	seen := make(map[*scene.Skeleton]bool)
	stop := false
	root.Traverse(func(n *scene.Node) {
		if stop {
			return
		}
		view, ok := n.AsSkinned()
		if !ok || view.Skeleton() == nil || seen[view.Skeleton()] {
			return
		}
		seen[view.Skeleton()] = true
		for _, b := range view.Skeleton().Bones {
			if !fn(b) {
				stop = true
				return
			}
		}
	})
}

// NearestBone returns the bone of any skinned mesh under root whose world
// position is closest to p, nil when there are no bones. World matrices
// must be current.
func NearestBone(root *scene.Node, p math.Vec3) *scene.Node {
	var best *scene.Node
	bestDist := 0.0
	bones(root, func(b *scene.Node) bool {
		d := b.WorldPosition().DistanceSq(p)
		if best == nil || d < bestDist {
			best, bestDist = b, d
		}
		return true
	})
	return best
}

// FindBone returns the first skeleton bone under root named name.
func FindBone(root *scene.Node, name string) *scene.Node {
	var found *scene.Node
	bones(root, func(b *scene.Node) bool {
		if b.Name == name {
			found = b
			return false
		}
		return true
	})
	return found
}

// Anchor attaches n to the bone nearest its position, storing the
// position in that bone's local space. Unnamed bones cannot be looked up
// again and are skipped. It reports whether the note was attached.
func Anchor(n *Note, root *scene.Node) bool {
	b := NearestBone(root, n.Position)
	if b == nil || b.Name == "" {
		return false
	}
	n.Attachment = &BoneAttachment{
		Bone:   b.Name,
		Offset: b.WorldMatrix().Inverse().TransformPoint(n.Position),
	}
	return true
}

// LivePosition returns where n is this frame. An attached note follows
// its bone; a note whose bone is gone, or one being dragged, stays at its
// stored position.
func LivePosition(n *Note, root *scene.Node) math.Vec3 {
	if !n.Attached() || n.dragging {
		return n.Position
	}
	b := FindBone(root, n.Attachment.Bone)
	if b == nil {
		return n.Position
	}
	return b.WorldMatrix().TransformPoint(n.Attachment.Offset)
}

// DisplayPosition is the live position raised by the note's vertical
// offset. A dragged note is shown at the raw pointer point.
func DisplayPosition(n *Note, root *scene.Node) math.Vec3 {
	p := LivePosition(n, root)
	if !n.dragging {
		p.Y += n.OffsetY
	}
	return p
}
