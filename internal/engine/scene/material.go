package scene

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Variant selects the shading program used for a material.
type Variant int

const (
	// VariantStandard is metallic-roughness PBR shading.
	VariantStandard Variant = iota
	// VariantDesaturated renders a grayed-out copy of the base material.
	VariantDesaturated
	// VariantBoneWeightedHighlight keeps full color where the per-vertex
	// highlight weight is 1 and fades to the desaturated look where it is 0.
	VariantBoneWeightedHighlight
)

func (v Variant) String() string {
	switch v {
	case VariantDesaturated:
		return "desaturated"
	case VariantBoneWeightedHighlight:
		return "bone-highlight"
	default:
		return "standard"
	}
}

// AlphaMode mirrors the glTF alpha modes.
type AlphaMode int

const (
	AlphaOpaque AlphaMode = iota
	AlphaMask
	AlphaBlend
)

// Material is a metallic-roughness surface description.
type Material struct {
	resource

	Name string

	Color             colorful.Color
	Metalness         float64
	Roughness         float64
	Opacity           float64
	Transparent       bool
	AlphaMode         AlphaMode
	AlphaCutoff       float64
	Emissive          colorful.Color
	EmissiveIntensity float64
	DoubleSided       bool

	Map          *Texture
	NormalMap    *Texture
	RoughnessMap *Texture
	MetalnessMap *Texture

	Variant Variant
	// HighlightAttribute names the geometry attribute read by
	// VariantBoneWeightedHighlight.
	HighlightAttribute string

	version int
}

// NewStandardMaterial returns a white, fully rough, non-metallic material.
func NewStandardMaterial(name string) *Material {
	return &Material{
		Name:              name,
		Color:             colorful.Color{R: 1, G: 1, B: 1},
		Roughness:         1,
		Opacity:           1,
		AlphaCutoff:       0.5,
		EmissiveIntensity: 1,
	}
}

// Clone returns a copy sharing textures with m. Dispose callbacks are not
// copied.
func (m *Material) Clone() *Material {
	c := *m
	c.resource = resource{}
	c.version = 0
	return &c
}

// Version increases on every MarkChanged.
func (m *Material) Version() int {
	return m.version
}

// MarkChanged flags the material for re-upload of its uniforms.
func (m *Material) MarkChanged() {
	m.version++
}

// Textures returns the non-nil texture slots.
func (m *Material) Textures() []*Texture {
	var out []*Texture
	for _, t := range []*Texture{m.Map, m.NormalMap, m.RoughnessMap, m.MetalnessMap} {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// IsBlended reports whether the material needs alpha blending.
func (m *Material) IsBlended() bool {
	return m.Transparent || m.AlphaMode == AlphaBlend || m.Opacity < 1
}
