package loader

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/glbstudio/internal/engine/animation"
)

func (b *builder) buildClips() error {
	for ai, ga := range b.doc.Animations {
		name := ga.Name
		if name == "" {
			name = fmt.Sprintf("animation_%d", ai)
		}

		var tracks []*animation.Track
		for ci, ch := range ga.Channels {
			if ch.Target.Node == nil {
				continue
			}
			path, ok := trackPath(ch.Target.Path)
			if !ok {
				b.log.Debug("skipping animation channel", zap.String("clip", name), zap.Int("channel", ci))
				continue
			}
			if *ch.Target.Node >= len(b.nodes) || ch.Sampler < 0 || ch.Sampler >= len(ga.Samplers) {
				return fmt.Errorf("animation %q channel %d: index out of range", name, ci)
			}
			sampler := ga.Samplers[ch.Sampler]

			in, err := modeler.ReadAccessor(b.doc, b.doc.Accessors[sampler.Input], nil)
			if err != nil {
				return fmt.Errorf("animation %q channel %d: reading input: %w", name, ci, err)
			}
			out, err := modeler.ReadAccessor(b.doc, b.doc.Accessors[sampler.Output], nil)
			if err != nil {
				return fmt.Errorf("animation %q channel %d: reading output: %w", name, ci, err)
			}
			times, ok := in.([]float32)
			if !ok {
				return fmt.Errorf("animation %q channel %d: input has type %T", name, ci, in)
			}
			values, err := flatten(out)
			if err != nil {
				return fmt.Errorf("animation %q channel %d: %w", name, ci, err)
			}

			t := &animation.Track{
				Target:        b.nodes[*ch.Target.Node],
				Path:          path,
				Interpolation: interpolation(sampler.Interpolation),
				Times:         make([]float64, len(times)),
				Values:        values,
			}
			for i, v := range times {
				t.Times[i] = float64(v)
			}
			keys := len(t.Times) * t.Components()
			if t.Interpolation == animation.InterpolationCubicSpline {
				keys *= 3
			}
			if len(t.Times) == 0 || len(values) < keys {
				b.log.Debug("skipping short animation channel", zap.String("clip", name), zap.Int("channel", ci))
				continue
			}
			tracks = append(tracks, t)
		}
		b.model.Clips = append(b.model.Clips, animation.NewClip(name, tracks))
	}
	return nil
}

func trackPath(p gltf.TRSProperty) (animation.Path, bool) {
	switch p {
	case gltf.TRSTranslation:
		return animation.PathTranslation, true
	case gltf.TRSRotation:
		return animation.PathRotation, true
	case gltf.TRSScale:
		return animation.PathScale, true
	}
	return 0, false
}

func interpolation(i gltf.Interpolation) animation.Interpolation {
	switch i {
	case gltf.InterpolationStep:
		return animation.InterpolationStep
	case gltf.InterpolationCubicSpline:
		return animation.InterpolationCubicSpline
	}
	return animation.InterpolationLinear
}

// flatten converts sampler output data to float64 components, expanding
// normalized integer rotations.
func flatten(data any) ([]float64, error) {
	var out []float64
	switch v := data.(type) {
	case [][3]float32:
		for _, e := range v {
			out = append(out, float64(e[0]), float64(e[1]), float64(e[2]))
		}
	case [][4]float32:
		for _, e := range v {
			out = append(out, float64(e[0]), float64(e[1]), float64(e[2]), float64(e[3]))
		}
	case [][4]int8:
		for _, e := range v {
			for _, c := range e {
				out = append(out, max(float64(c)/127, -1))
			}
		}
	case [][4]uint8:
		for _, e := range v {
			for _, c := range e {
				out = append(out, float64(c)/255)
			}
		}
	case [][4]int16:
		for _, e := range v {
			for _, c := range e {
				out = append(out, max(float64(c)/32767, -1))
			}
		}
	case [][4]uint16:
		for _, e := range v {
			for _, c := range e {
				out = append(out, float64(c)/65535)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported output type %T", data)
	}
	return out, nil
}

func colorFromFactor(r, g, b float64) colorful.Color {
	return colorful.Color{R: r, G: g, B: b}
}
