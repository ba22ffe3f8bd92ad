package binding

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/internal/engine/texture"
)

// MaterialParams are the editable properties of a named material. Colors
// are #rrggbb strings. An empty TextureURL means a flat color.
type MaterialParams struct {
	Color             string  `yaml:"color"`
	Metalness         float64 `yaml:"metalness"`
	Roughness         float64 `yaml:"roughness"`
	Opacity           float64 `yaml:"opacity"`
	Emissive          string  `yaml:"emissive"`
	EmissiveIntensity float64 `yaml:"emissive_intensity"`
	TextureURL        string  `yaml:"texture_url"`
}

// DefaultMaterialParams returns the control panel defaults.
func DefaultMaterialParams() MaterialParams {
	return MaterialParams{
		Color:     "#ffffff",
		Metalness: 0.5,
		Roughness: 0.5,
		Opacity:   1,
		Emissive:  "#000000",
	}
}

// Overrides reports meshes whose materials are temporarily replaced by
// another component and must not be edited.
type Overrides interface {
	Overridden(n *scene.Node) bool
}

// Holder is implemented by Overrides that keep the replaced materials
// aside while their stand-ins are shown.
type Holder interface {
	Originals() []*scene.Material
}

// TextureSource loads images in the background and hands results back on
// the render thread. *texture.Loader implements it.
type TextureSource interface {
	Load(key, source string)
	Poll(fn func(texture.Result)) int
}

// loaded is the texture this binder owns for one material name.
type loaded struct {
	source  string
	texture *scene.Texture
}

// MaterialBinder applies MaterialParams to every material instance sharing
// a name and owns at most one override texture per material name.
type MaterialBinder struct {
	source    TextureSource
	overrides Overrides
	log       *zap.Logger

	textures  map[string]loaded
	originals map[*scene.Material]*scene.Texture // Maps replaced by an override
	requested map[string]MaterialParams // Latest params per material name
	pending   map[string]string         // Material name -> source in flight
}

// NewMaterialBinder creates a binder. overrides may be nil.
func NewMaterialBinder(source TextureSource, overrides Overrides, log *zap.Logger) *MaterialBinder {
	if log == nil {
		log = zap.NewNop()
	}
	return &MaterialBinder{
		source:    source,
		overrides: overrides,
		log:       log,
		textures:  make(map[string]loaded),
		originals: make(map[*scene.Material]*scene.Texture),
		requested: make(map[string]MaterialParams),
		pending:   make(map[string]string),
	}
}

// Apply pushes params onto every material named name under root. A texture
// URL starts a background load; until it lands, and if it fails, the flat
// color is shown. Apply with an empty name does nothing.
func (b *MaterialBinder) Apply(root *scene.Node, name string, params MaterialParams) {
	if root == nil || name == "" {
		return
	}
	b.requested[name] = params

	if params.TextureURL == "" {
		b.release(root, name)
		b.applyFlat(root, name, params, nil)
		return
	}

	if cur, ok := b.textures[name]; ok && cur.source == params.TextureURL {
		b.applyFlat(root, name, params, cur.texture)
		return
	}
	b.applyFlat(root, name, params, nil)
	if b.pending[name] != params.TextureURL && b.source != nil {
		b.pending[name] = params.TextureURL
		b.source.Load(name, params.TextureURL)
	}
}

// Poll applies finished texture loads. Results are keyed by the material
// name captured when the load started; a result whose URL is no longer the
// one requested for that name is discarded.
func (b *MaterialBinder) Poll(root *scene.Node) int {
	if b.source == nil {
		return 0
	}
	return b.source.Poll(func(r texture.Result) {
		if b.pending[r.Key] == r.Source {
			delete(b.pending, r.Key)
		}
		params, ok := b.requested[r.Key]
		if !ok || params.TextureURL != r.Source {
			b.log.Debug("dropping stale texture", zap.String("material", r.Key), zap.String("source", r.Source))
			return
		}
		if r.Err != nil {
			b.log.Error("texture load failed",
				zap.String("material", r.Key),
				zap.String("source", r.Source),
				zap.Error(r.Err),
			)
			b.release(root, r.Key)
			b.applyFlat(root, r.Key, params, nil)
			return
		}

		b.release(root, r.Key)
		tex := scene.NewTexture(r.Key, r.Image)
		b.textures[r.Key] = loaded{source: r.Source, texture: tex}
		b.applyFlat(root, r.Key, params, tex)
	})
}

// Texture returns the override texture held for a material name.
func (b *MaterialBinder) Texture(name string) *scene.Texture {
	return b.textures[name].texture
}

// Dispose releases every texture the binder owns. Materials still pointing
// at them are detached when root is not nil.
func (b *MaterialBinder) Dispose(root *scene.Node) {
	for name := range b.textures {
		b.release(root, name)
	}
	b.originals = make(map[*scene.Material]*scene.Texture)
	b.requested = make(map[string]MaterialParams)
	b.pending = make(map[string]string)
}

// release disposes the texture held for name and gives materials using it
// back the map they had before the override. Materials set aside by the
// overrides are detached as well.
func (b *MaterialBinder) release(root *scene.Node, name string) {
	cur, ok := b.textures[name]
	if !ok {
		return
	}
	delete(b.textures, name)

	// Clones made while the override was live have no entry of their own.
	var fallback *scene.Texture
	for m, prev := range b.originals {
		if m.Name == name && m.Map == cur.texture {
			fallback = prev
			break
		}
	}
	detach := func(m *scene.Material) {
		if m == nil || m.Map != cur.texture {
			return
		}
		prev, ok := b.originals[m]
		if !ok {
			prev = fallback
		}
		m.Map = prev
		delete(b.originals, m)
		m.MarkChanged()
	}
	if h, ok := b.overrides.(Holder); ok {
		for _, m := range h.Originals() {
			detach(m)
		}
	}
	if root != nil {
		forEachMaterial(root, nil, detach)
	}
	cur.texture.Dispose()
}

func (b *MaterialBinder) applyFlat(root *scene.Node, name string, p MaterialParams, tex *scene.Texture) {
	color, err := parseColor(p.Color, colorful.Color{R: 1, G: 1, B: 1})
	if err != nil {
		b.log.Debug("invalid material color", zap.String("material", name), zap.Error(err))
	}
	emissive, err := parseColor(p.Emissive, colorful.Color{})
	if err != nil {
		b.log.Debug("invalid emissive color", zap.String("material", name), zap.Error(err))
	}
	if tex != nil {
		// The image carries the color
		color = colorful.Color{R: 1, G: 1, B: 1}
	}

	forEachMaterial(root, b.overridden, func(m *scene.Material) {
		if m.Name != name {
			return
		}
		m.Color = color
		m.Metalness = p.Metalness
		m.Roughness = p.Roughness
		m.Opacity = p.Opacity
		m.Transparent = p.Opacity < 1
		m.Emissive = emissive
		m.EmissiveIntensity = p.EmissiveIntensity
		if tex != nil && m.Map != tex {
			if _, ok := b.originals[m]; !ok {
				b.originals[m] = m.Map
			}
			m.Map = tex
		}
		m.MarkChanged()
	})
}

func (b *MaterialBinder) overridden(n *scene.Node) bool {
	return b.overrides != nil && b.overrides.Overridden(n)
}

// parseColor reads a #rrggbb string, returning fallback on error.
func parseColor(s string, fallback colorful.Color) (colorful.Color, error) {
	if s == "" {
		return fallback, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback, fmt.Errorf("parse color %q: %w", s, err)
	}
	return c, nil
}
