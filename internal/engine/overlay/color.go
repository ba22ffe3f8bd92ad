package overlay

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite   = Color{1, 1, 1, 1}
	ColorBlack   = Color{0, 0, 0, 1}
	ColorPanelBg = Color{0.08, 0.08, 0.1, 0.85}
)

// FromColorful converts c with the given alpha.
func FromColorful(c colorful.Color, alpha float32) Color {
	c = c.Clamped()
	return Color{R: float32(c.R), G: float32(c.G), B: float32(c.B), A: alpha}
}

// Hex parses "#rrggbb" or "#rgb". Invalid input returns fallback.
func Hex(s string, fallback Color) Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	return FromColorful(c, 1)
}

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}

// Darken returns a darker version of the color.
func (c Color) Darken(factor float32) Color {
	return Color{
		R: c.R * (1 - factor),
		G: c.G * (1 - factor),
		B: c.B * (1 - factor),
		A: c.A,
	}
}
