package overlay

import (
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
)

func TestFontAtlasHoldsGlyphs(t *testing.T) {
	f := NewFont()
	gw, gh := f.GlyphSize()
	if gw != 7 || gh != 13 {
		t.Fatalf("GlyphSize() = %d x %d, want 7 x 13", gw, gh)
	}

	cellCoverage := func(r rune) int {
		u0, v0, _, _ := f.GlyphUV(r)
		b := f.Atlas.Bounds()
		x0, y0 := int(u0*float32(b.Dx())+0.5), int(v0*float32(b.Dy())+0.5)
		sum := 0
		for y := y0; y < y0+gh; y++ {
			for x := x0; x < x0+gw; x++ {
				sum += int(f.Atlas.AlphaAt(x, y).A)
			}
		}
		return sum
	}
	if cellCoverage('A') == 0 {
		t.Error("glyph 'A' is empty")
	}
	if cellCoverage(' ') != 0 {
		t.Error("glyph ' ' should be empty")
	}
}

func TestGlyphUVFallsBack(t *testing.T) {
	f := NewFont()
	a0, b0, c0, d0 := f.GlyphUV('é')
	a1, b1, c1, d1 := f.GlyphUV('?')
	if a0 != a1 || b0 != b1 || c0 != c1 || d0 != d1 {
		t.Error("runes outside the atlas should map to '?'")
	}
	if u0, v0, u1, v1 := f.GlyphUV('~'); u1 <= u0 || v1 <= v0 || u1 > 1 || v1 > 1 {
		t.Errorf("GlyphUV('~') = %v %v %v %v", u0, v0, u1, v1)
	}
}

func TestMeasureText(t *testing.T) {
	f := NewFont()
	tests := []struct {
		text  string
		scale float32
		w, h  float32
	}{
		{"", 1, 0, 0},
		{"abc", 1, 21, 13},
		{"abc", 2, 42, 26},
		{"a\nlonger", 1, 42, 26},
	}
	for _, tt := range tests {
		w, h := f.MeasureText(tt.text, tt.scale)
		if w != tt.w || h != tt.h {
			t.Errorf("MeasureText(%q, %v) = %v x %v, want %v x %v", tt.text, tt.scale, w, h, tt.w, tt.h)
		}
	}
}

func TestHex(t *testing.T) {
	if got := Hex("#ff0000", ColorBlack); got != (Color{1, 0, 0, 1}) {
		t.Errorf("Hex(#ff0000) = %v", got)
	}
	if got := Hex("red", ColorWhite); got != ColorWhite {
		t.Errorf("invalid hex should fall back, got %v", got)
	}
	if got := FromColorful(colorful.Color{R: 1.5, G: 0.5, B: -1}, 0.5); got != (Color{1, 0.5, 0, 0.5}) {
		t.Errorf("FromColorful should clamp, got %v", got)
	}
}
