package shader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/internal/engine/shader/shaders"
)

// Grayed-out look shared by the desaturated and bone-highlight variants.
const (
	GrayLevel = 0.2
	GrayMix   = 0.72
)

// Perceptual luminance weights.
const (
	LumaR = 0.299
	LumaG = 0.587
	LumaB = 0.114
)

// MaxJoints is the size of the joint matrix array in the mesh shader.
// Skins with more bones are deformed on the CPU.
const MaxJoints = 128

// Define is a preprocessor symbol injected after the #version line.
type Define struct {
	Name  string
	Value string
}

// Preprocess inserts defines right after the #version directive, or at the
// top when the source has none.
func Preprocess(src string, defines ...Define) string {
	if len(defines) == 0 {
		return src
	}
	var b strings.Builder
	for _, d := range defines {
		b.WriteString("#define ")
		b.WriteString(d.Name)
		if d.Value != "" {
			b.WriteByte(' ')
			b.WriteString(d.Value)
		}
		b.WriteByte('\n')
	}

	if strings.HasPrefix(src, "#version") {
		end := strings.IndexByte(src, '\n')
		if end < 0 {
			return src + "\n" + b.String()
		}
		return src[:end+1] + b.String() + src[end+1:]
	}
	return b.String() + src
}

// VariantDefines returns the defines selecting a material variant's code path.
func VariantDefines(v scene.Variant) []Define {
	defs := []Define{
		{Name: "MAX_JOINTS", Value: strconv.Itoa(MaxJoints)},
		{Name: "GRAY_LEVEL", Value: glslFloat(GrayLevel)},
		{Name: "GRAY_MIX", Value: glslFloat(GrayMix)},
		{Name: "LUMA_R", Value: glslFloat(LumaR)},
		{Name: "LUMA_G", Value: glslFloat(LumaG)},
		{Name: "LUMA_B", Value: glslFloat(LumaB)},
	}
	switch v {
	case scene.VariantDesaturated:
		defs = append(defs, Define{Name: "VARIANT_DESATURATED"})
	case scene.VariantBoneWeightedHighlight:
		defs = append(defs, Define{Name: "VARIANT_BONE_HIGHLIGHT"})
	}
	return defs
}

// MeshSources returns the vertex and fragment source for a variant.
func MeshSources(v scene.Variant) (vertex, fragment string) {
	defs := VariantDefines(v)
	return Preprocess(shaders.MeshVertexShader, defs...), Preprocess(shaders.MeshFragmentShader, defs...)
}

// NewMeshProgram compiles the mesh program for a variant.
func NewMeshProgram(v scene.Variant) (*Program, error) {
	vert, frag := MeshSources(v)
	p, err := NewProgram(vert, frag)
	if err != nil {
		return nil, fmt.Errorf("%s program: %w", v, err)
	}
	return p, nil
}

// NewLineProgram compiles the program used for debug lines.
func NewLineProgram() (*Program, error) {
	p, err := NewProgram(shaders.LineVertexShader, shaders.LineFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("line program: %w", err)
	}
	return p, nil
}

// glslFloat formats a float literal GLSL accepts as float, never as int.
func glslFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
