package viewer

import (
	"github.com/Faultbox/glbstudio/internal/engine/overlay"
	"github.com/Faultbox/glbstudio/internal/viewer/annotation"
)

// Canvas is the 2D surface annotations are drawn on. *overlay.Renderer
// implements it.
type Canvas interface {
	DrawRect(x, y, width, height float32, c overlay.Color)
	DrawDisc(cx, cy, radius float32, c overlay.Color)
	DrawText(x, y float32, text string, scale float32, c overlay.Color)
	MeasureText(text string, scale float32) (float32, float32)
}

const (
	labelPadding = 4
	labelGap     = 6
	glyphHeight  = 13 // Pixel height of the overlay font at scale 1
)

// DrawAnnotations draws note markers and text labels at the positions in
// snap. Entries behind the camera are skipped.
func (v *Viewer) DrawAnnotations(c Canvas, snap annotation.Snapshot) {
	marker := overlay.Hex(v.cfg.Viewer.Annotation.MarkerColor, overlay.Color{R: 0.94, G: 0.27, B: 0.27, A: 1})
	moving := v.Annotations.Moving()

	for _, p := range snap.Positions {
		if !p.OnScreen {
			continue
		}
		x, y := float32(p.X), float32(p.Y)

		switch p.Kind {
		case annotation.KindNote:
			n, ok := v.Annotations.Note(p.ID)
			if !ok {
				continue
			}
			r := float32(snap.Radius)
			if p.ID == moving {
				c.DrawDisc(x, y, r+2, overlay.ColorWhite)
			}
			c.DrawDisc(x, y, r, marker)
			if n.Text != "" {
				w, h := c.MeasureText(n.Text, 1)
				lx, ly := x+r+labelGap, y-h/2-labelPadding
				c.DrawRect(lx, ly, w+2*labelPadding, h+2*labelPadding, overlay.ColorPanelBg)
				c.DrawText(lx+labelPadding, ly+labelPadding, n.Text, 1, overlay.ColorWhite)
			}

		case annotation.KindText:
			t, ok := v.Annotations.Text(p.ID)
			if !ok || t.Text == "" {
				continue
			}
			scale := float32(t.FontSize / glyphHeight)
			if scale <= 0 {
				scale = 1
			}
			w, h := c.MeasureText(t.Text, scale)
			c.DrawText(x-w/2, y-h/2, t.Text, scale, overlay.Hex(t.Color, overlay.ColorWhite))
		}
	}
}
