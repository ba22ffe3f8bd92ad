package overlay

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Printable ASCII range baked into the atlas.
const (
	firstGlyph = ' '
	lastGlyph  = '~'
	atlasCols  = 16
)

// Font is a fixed-width bitmap font baked into a single alpha atlas.
type Font struct {
	Atlas *image.Alpha

	glyphW, glyphH int
}

// NewFont bakes basicfont's 7x13 face.
func NewFont() *Font {
	face := basicfont.Face7x13
	gw, gh := face.Advance, face.Height
	count := int(lastGlyph-firstGlyph) + 1
	rows := (count + atlasCols - 1) / atlasCols

	atlas := image.NewAlpha(image.Rect(0, 0, atlasCols*gw, rows*gh))
	d := font.Drawer{Dst: atlas, Src: image.Opaque, Face: face}
	for r := firstGlyph; r <= lastGlyph; r++ {
		i := int(r - firstGlyph)
		x, y := (i%atlasCols)*gw, (i/atlasCols)*gh
		d.Dot = fixed.P(x, y+face.Ascent)
		d.DrawString(string(r))
	}

	return &Font{Atlas: atlas, glyphW: gw, glyphH: gh}
}

// GlyphSize returns the cell size in atlas pixels.
func (f *Font) GlyphSize() (int, int) {
	return f.glyphW, f.glyphH
}

// GlyphUV returns the atlas rectangle of r in texture coordinates.
// Runes outside the atlas map to '?'.
func (f *Font) GlyphUV(r rune) (u0, v0, u1, v1 float32) {
	if r < firstGlyph || r > lastGlyph {
		r = '?'
	}
	i := int(r - firstGlyph)
	b := f.Atlas.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	x, y := float32((i%atlasCols)*f.glyphW), float32((i/atlasCols)*f.glyphH)
	return x / w, y / h, (x + float32(f.glyphW)) / w, (y + float32(f.glyphH)) / h
}

// MeasureText returns the size of text drawn at scale. Lines break on '\n'.
func (f *Font) MeasureText(text string, scale float32) (float32, float32) {
	if text == "" {
		return 0, 0
	}
	lines, cols, widest := 1, 0, 0
	for _, r := range text {
		if r == '\n' {
			lines++
			cols = 0
			continue
		}
		cols++
		if cols > widest {
			widest = cols
		}
	}
	return float32(widest*f.glyphW) * scale, float32(lines*f.glyphH) * scale
}
