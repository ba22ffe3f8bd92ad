package shader

import (
	"strings"
	"testing"

	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/internal/engine/shader/shaders"
)

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		defines []Define
		want    string
	}{
		{"no defines", "#version 410 core\nvoid main() {}", nil, "#version 410 core\nvoid main() {}"},
		{"after version", "#version 410 core\nvoid main() {}", []Define{{Name: "A"}, {Name: "B", Value: "2"}},
			"#version 410 core\n#define A\n#define B 2\nvoid main() {}"},
		{"no version", "void main() {}", []Define{{Name: "A"}}, "#define A\nvoid main() {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preprocess(tt.src, tt.defines...); got != tt.want {
				t.Errorf("Preprocess() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVariantDefines(t *testing.T) {
	tests := []struct {
		variant scene.Variant
		want    string
		absent  []string
	}{
		{scene.VariantStandard, "", []string{"VARIANT_DESATURATED", "VARIANT_BONE_HIGHLIGHT"}},
		{scene.VariantDesaturated, "VARIANT_DESATURATED", []string{"VARIANT_BONE_HIGHLIGHT"}},
		{scene.VariantBoneWeightedHighlight, "VARIANT_BONE_HIGHLIGHT", []string{"VARIANT_DESATURATED"}},
	}

	for _, tt := range tests {
		t.Run(tt.variant.String(), func(t *testing.T) {
			_, frag := MeshSources(tt.variant)
			if !strings.HasPrefix(frag, "#version 410 core\n") {
				t.Fatalf("version directive must stay first: %q", frag[:40])
			}
			if tt.want != "" && !strings.Contains(frag, "#define "+tt.want+"\n") {
				t.Errorf("missing #define %s", tt.want)
			}
			for _, name := range tt.absent {
				if strings.Contains(frag, "#define "+name) {
					t.Errorf("unexpected #define %s", name)
				}
			}
			if !strings.Contains(frag, "#define GRAY_MIX 0.72\n") {
				t.Error("gray mix define missing")
			}
		})
	}
}

func TestGLSLFloat(t *testing.T) {
	tests := map[float64]string{1: "1.0", 0.2: "0.2", 0.114: "0.114", 128: "128.0"}
	for in, want := range tests {
		if got := glslFloat(in); got != want {
			t.Errorf("glslFloat(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestMeshShaderDeclaresHighlightAttribute(t *testing.T) {
	if !strings.Contains(shaders.MeshVertexShader, "aHighlightWeight") {
		t.Error("mesh vertex shader must read the highlight weight attribute")
	}
	if !strings.Contains(shaders.LineVertexShader, "aColor") {
		t.Error("line vertex shader must read per-vertex colors")
	}
}
