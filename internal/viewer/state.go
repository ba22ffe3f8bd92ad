package viewer

import (
	"slices"

	"github.com/Faultbox/glbstudio/internal/config"
	"github.com/Faultbox/glbstudio/internal/viewer/binding"
	"github.com/Faultbox/glbstudio/internal/viewer/introspect"
)

// AnimationParams select what the sequencer plays.
type AnimationParams struct {
	Playing      bool
	Clip         string
	SequenceMode bool
	Sequence     []string
	Loop         bool
	Speed        float64
}

// SkeletonParams control skeleton visibility and the helper overlay.
type SkeletonParams struct {
	Selected string // "" means every skeleton
	Visible  bool
	Helper   bool
}

// State is the control panel state the viewer last applied.
type State struct {
	Model     introspect.NodeTransform
	Material  string
	Params    binding.MaterialParams
	Texture   string
	UV        binding.TextureTransform
	Highlight string
	Skeleton  SkeletonParams
	Animation AnimationParams
}

func defaultState(cfg *config.Config) State {
	mc := cfg.Viewer.Model
	m := cfg.Viewer.Material
	return State{
		Model: introspect.NodeTransform{
			Visible:  true,
			Position: vec(mc.Position),
			Rotation: vec(mc.Rotation),
			Scale:    mc.Scale,
		},
		Params: binding.MaterialParams{
			Color:             m.Color,
			Metalness:         m.Metalness,
			Roughness:         m.Roughness,
			Opacity:           m.Opacity,
			Emissive:          m.Emissive,
			EmissiveIntensity: m.EmissiveIntensity,
		},
		UV:       binding.DefaultTextureTransform(),
		Skeleton: SkeletonParams{Visible: true},
		Animation: AnimationParams{
			Loop:  cfg.Viewer.Animation.Loop,
			Speed: cfg.Viewer.Animation.Speed,
		},
	}
}

// State returns the applied control state.
func (v *Viewer) State() State {
	return v.state
}

// NodeTransform returns the current transform of a named node.
func (v *Viewer) NodeTransform(name string) introspect.NodeTransform {
	if t, ok := v.transforms[name]; ok {
		return t
	}
	return introspect.DefaultTransform()
}

// SetNodeTransform applies t to every node called name. Unknown names
// are ignored.
func (v *Viewer) SetNodeTransform(name string, t introspect.NodeTransform) {
	if _, ok := v.transforms[name]; !ok {
		return
	}
	v.transforms[name] = t
	binding.ApplyTransforms(v.Root(), map[string]introspect.NodeTransform{name: t})
}

// SetModelTransform moves the whole model.
func (v *Viewer) SetModelTransform(t introspect.NodeTransform) {
	v.state.Model = t
	binding.ApplyTransform(v.modelGroup, t)
}

// SelectMaterial chooses the material the material controls edit. The
// current params are applied to it.
func (v *Viewer) SelectMaterial(name string) {
	v.state.Material = name
	v.materials.Apply(v.Root(), name, v.state.Params)
}

// SetMaterialParams edits the selected material.
func (v *Viewer) SetMaterialParams(p binding.MaterialParams) {
	v.state.Params = p
	v.materials.Apply(v.Root(), v.state.Material, p)
}

// SelectTexture chooses the texture the UV controls edit.
func (v *Viewer) SelectTexture(name string) {
	v.state.Texture = name
	v.state.UV = binding.DefaultTextureTransform()
}

// SetTextureTransform edits the selected texture's UV transform.
func (v *Viewer) SetTextureTransform(t binding.TextureTransform) {
	v.state.UV = t
	binding.ApplyTextureTransform(v.Root(), v.state.Texture, t)
}

// SetHighlight grays out everything except name. The selected material
// is re-applied so edits land on the restored instances.
func (v *Viewer) SetHighlight(name string) {
	v.state.Highlight = name
	v.highlight.Set(v.Root(), name)
	if v.state.Material != "" {
		v.materials.Apply(v.Root(), v.state.Material, v.state.Params)
	}
}

// SetSkeleton updates skeleton visibility and the helper overlay.
func (v *Viewer) SetSkeleton(p SkeletonParams) {
	v.state.Skeleton = p
	binding.ApplySkeletonVisibility(v.Root(), p.Selected, p.Visible)
	v.helper.Set(v.Root(), p.Helper, p.Selected)
}

// SetAnimation reconfigures playback. A changed selection restarts from
// idle; speed and loop changes alone adjust the running clip in place.
func (v *Viewer) SetAnimation(p AnimationParams) {
	prev := v.state.Animation
	v.state.Animation = p

	v.sequencer.SetSpeed(p.Speed)
	v.sequencer.SetLoop(p.Loop)

	restart := p.Playing != prev.Playing || p.Clip != prev.Clip ||
		p.SequenceMode != prev.SequenceMode || !slices.Equal(p.Sequence, prev.Sequence)
	if !restart {
		return
	}
	switch {
	case !p.Playing:
		v.sequencer.Stop()
	case p.SequenceMode:
		v.sequencer.PlaySequence(p.Sequence)
	default:
		v.sequencer.PlayClip(p.Clip)
	}
}

// Handle returns the imperative playback handle.
func (v *Viewer) Handle() *Handle {
	return &Handle{v: v}
}
