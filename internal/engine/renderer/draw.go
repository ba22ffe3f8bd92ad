package renderer

import (
	"sort"

	"github.com/Faultbox/glbstudio/internal/engine/model"
	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/pkg/math"
)

// drawItem is one index group of a mesh with its resolved material.
type drawItem struct {
	host     scene.MaterialHost
	group    model.Group
	material *scene.Material
	depth    float64 // Squared distance from the eye
}

// buildDrawList collects the index groups of every visible mesh. Blended
// groups are sorted back to front.
func buildDrawList(root *scene.Node, eye math.Vec3) (opaque, blended []drawItem) {
	if root == nil {
		return nil, nil
	}
	root.TraverseVisible(func(n *scene.Node) {
		host, ok := n.AsMaterialHost()
		if !ok || host.Geometry() == nil || host.Geometry().Disposed() {
			return
		}
		depth := n.WorldPosition().DistanceSq(eye)
		materials := host.Materials()
		for _, g := range host.Geometry().Groups {
			if g.IndexCount == 0 {
				continue
			}
			item := drawItem{host: host, group: g, material: materialFor(materials, g.MaterialIndex), depth: depth}
			if item.material.IsBlended() {
				blended = append(blended, item)
			} else {
				opaque = append(opaque, item)
			}
		}
	})

	sort.SliceStable(blended, func(i, j int) bool {
		return blended[i].depth > blended[j].depth
	})
	return opaque, blended
}

var fallbackMaterial = scene.NewStandardMaterial("")

// materialFor returns the material for a group index, clamping to the last
// material and falling back to a default one.
func materialFor(materials []*scene.Material, index int) *scene.Material {
	if len(materials) == 0 {
		return fallbackMaterial
	}
	if index < 0 || index >= len(materials) {
		index = len(materials) - 1
	}
	if materials[index] == nil {
		return fallbackMaterial
	}
	return materials[index]
}

// highlightAttribute returns the per-vertex attribute the mesh's bone
// highlight materials read, or "" when none does.
func highlightAttribute(materials []*scene.Material) string {
	for _, m := range materials {
		if m != nil && m.Variant == scene.VariantBoneWeightedHighlight && m.HighlightAttribute != "" {
			return m.HighlightAttribute
		}
	}
	return ""
}
