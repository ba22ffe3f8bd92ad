// Package highlight grays out everything except a selected node, or every
// vertex not weighted to a selected bone, by swapping in cloned materials
// with a desaturating variant. Originals are kept in a restore registry.
package highlight

import (
	"go.uber.org/zap"

	"github.com/Faultbox/glbstudio/internal/engine/model"
	"github.com/Faultbox/glbstudio/internal/engine/scene"
)

// Attribute is the per-vertex attribute holding a vertex's weight toward
// the highlighted bone.
const Attribute = "highlightWeight"

// override records what was replaced on one mesh.
type override struct {
	host      scene.MaterialHost
	materials []*scene.Material
	geometry  *model.Geometry // nil when the geometry was not replaced
}

// Engine applies and restores highlight overrides.
type Engine struct {
	log      *zap.Logger
	current  string
	registry map[*scene.Node]*override
	order    []*scene.Node
}

// New creates an engine with nothing highlighted.
func New(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log, registry: make(map[*scene.Node]*override)}
}

// Current returns the highlighted name, "" when nothing is highlighted.
func (e *Engine) Current() string {
	return e.current
}

// Overridden reports whether n currently shows a highlight clone.
func (e *Engine) Overridden(n *scene.Node) bool {
	_, ok := e.registry[n]
	return ok
}

// Originals returns the materials set aside while clones are shown, in
// the order the meshes were overridden.
func (e *Engine) Originals() []*scene.Material {
	var out []*scene.Material
	for _, n := range e.order {
		for _, m := range e.registry[n].materials {
			if m != nil {
				out = append(out, m)
			}
		}
	}
	return out
}

// Set restores any previous highlight and highlights name under root. A
// name carried by nodes with mesh descendants keeps those meshes in color
// and desaturates every other mesh. Otherwise the name is looked up as a
// bone and meshes bound to its skeleton are shaded by their weight toward
// it. An empty or unknown name leaves everything in color.
func (e *Engine) Set(root *scene.Node, name string) {
	e.Clear()
	e.current = name
	if root == nil || name == "" {
		return
	}

	kept := make(map[*scene.Node]bool)
	for _, n := range root.FindAll(name) {
		n.Traverse(func(c *scene.Node) {
			if _, ok := c.AsMaterialHost(); ok {
				kept[c] = true
			}
		})
	}

	if len(kept) > 0 {
		e.desaturateExcept(root, kept)
		return
	}
	if !e.highlightBone(root, name) {
		e.log.Debug("highlight target not found", zap.String("name", name))
	}
}

// Clear restores original materials and geometries and disposes the
// clones.
func (e *Engine) Clear() {
	for _, n := range e.order {
		o := e.registry[n]
		clones := o.host.Materials()
		o.host.SetMaterials(o.materials)
		for _, c := range clones {
			if c != nil {
				c.Dispose()
			}
		}
		if o.geometry != nil {
			clone := o.host.Geometry()
			o.host.SetGeometry(o.geometry)
			clone.Dispose()
		}
	}
	e.registry = make(map[*scene.Node]*override)
	e.order = nil
	e.current = ""
}

func (e *Engine) desaturateExcept(root *scene.Node, kept map[*scene.Node]bool) {
	root.Traverse(func(n *scene.Node) {
		host, ok := n.AsMaterialHost()
		if !ok || kept[n] {
			return
		}
		e.record(n, host, false)
		host.SetMaterials(cloneMaterials(host.Materials(), scene.VariantDesaturated, ""))
	})
}

// highlightBone shades every mesh whose skeleton has a bone named name.
func (e *Engine) highlightBone(root *scene.Node, name string) bool {
	found := false
	root.Traverse(func(n *scene.Node) {
		view, ok := n.AsSkinned()
		if !ok || view.Skeleton() == nil || view.Geometry() == nil {
			return
		}
		_, index := view.Skeleton().BoneByName(name)
		if index < 0 {
			return
		}
		found = true

		geo := view.Geometry().Clone()
		if err := geo.SetAttribute(Attribute, geo.BoneInfluence(index)); err != nil {
			e.log.Error("bone highlight attribute", zap.String("mesh", n.Name), zap.Error(err))
			return
		}
		e.record(n, view, true)
		view.SetGeometry(geo)
		view.SetMaterials(cloneMaterials(view.Materials(), scene.VariantBoneWeightedHighlight, Attribute))
	})
	return found
}

func (e *Engine) record(n *scene.Node, host scene.MaterialHost, geometry bool) {
	o := &override{host: host, materials: host.Materials()}
	if geometry {
		o.geometry = host.Geometry()
	}
	e.registry[n] = o
	e.order = append(e.order, n)
}

func cloneMaterials(materials []*scene.Material, v scene.Variant, attribute string) []*scene.Material {
	out := make([]*scene.Material, len(materials))
	for i, m := range materials {
		if m == nil {
			m = scene.NewStandardMaterial("")
		}
		c := m.Clone()
		c.Variant = v
		c.HighlightAttribute = attribute
		out[i] = c
	}
	if len(out) == 0 {
		c := scene.NewStandardMaterial("")
		c.Variant = v
		c.HighlightAttribute = attribute
		out = append(out, c)
	}
	return out
}
