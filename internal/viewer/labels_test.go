package viewer

import (
	"testing"

	"github.com/Faultbox/glbstudio/internal/config"
	"github.com/Faultbox/glbstudio/internal/engine/overlay"
	"github.com/Faultbox/glbstudio/internal/viewer/annotation"
	"github.com/Faultbox/glbstudio/pkg/math"
)

type disc struct {
	x, y, r float32
	c       overlay.Color
}

type label struct {
	x, y  float32
	text  string
	scale float32
	c     overlay.Color
}

// recorder is a Canvas that keeps what was drawn. Glyphs are 10x20 at
// scale 1.
type recorder struct {
	discs  []disc
	rects  int
	labels []label
}

func (r *recorder) DrawRect(x, y, w, h float32, c overlay.Color) { r.rects++ }
func (r *recorder) DrawDisc(x, y, radius float32, c overlay.Color) {
	r.discs = append(r.discs, disc{x, y, radius, c})
}
func (r *recorder) DrawText(x, y float32, text string, scale float32, c overlay.Color) {
	r.labels = append(r.labels, label{x, y, text, scale, c})
}
func (r *recorder) MeasureText(text string, scale float32) (float32, float32) {
	return float32(len(text)) * 10 * scale, 20 * scale
}

func TestDrawAnnotations(t *testing.T) {
	cfg := config.Default()
	cfg.Viewer.Annotation.MarkerColor = "#00ff00"
	v := New(cfg, Options{})

	note := annotation.NewNote(math.Vec3{})
	note.Text = "hinge"
	hidden := annotation.NewNote(math.Vec3{})
	text := annotation.NewText(math.Vec3{})
	text.Text = "Label"
	text.FontSize = 26
	text.Color = "#ff0000"
	v.Annotations.AddNote(note)
	v.Annotations.AddNote(hidden)
	v.Annotations.AddText(text)

	snap := annotation.Snapshot{
		Radius: 7,
		Positions: []annotation.ScreenPosition{
			{ID: note.ID, Kind: annotation.KindNote, X: 100, Y: 50, OnScreen: true},
			{ID: hidden.ID, Kind: annotation.KindNote, X: 10, Y: 10, OnScreen: false},
			{ID: text.ID, Kind: annotation.KindText, X: 300, Y: 200, OnScreen: true},
			{ID: "note-gone", Kind: annotation.KindNote, X: 1, Y: 1, OnScreen: true},
		},
	}

	c := &recorder{}
	v.DrawAnnotations(c, snap)

	if len(c.discs) != 1 {
		t.Fatalf("discs = %+v, want one marker", c.discs)
	}
	if d := c.discs[0]; d.x != 100 || d.y != 50 || d.r != 7 || d.c != (overlay.Color{R: 0, G: 1, B: 0, A: 1}) {
		t.Errorf("marker = %+v", d)
	}
	if c.rects != 1 {
		t.Errorf("rects = %d, want one note label panel", c.rects)
	}
	if len(c.labels) != 2 {
		t.Fatalf("labels = %+v", c.labels)
	}
	if l := c.labels[0]; l.text != "hinge" || l.x <= 107 {
		t.Errorf("note label = %+v, want it right of the marker", l)
	}
	// 26px on a 13px font is scale 2: 5 glyphs of 20 wide, 40 tall.
	want := label{x: 250, y: 180, text: "Label", scale: 2, c: overlay.Color{R: 1, G: 0, B: 0, A: 1}}
	if c.labels[1] != want {
		t.Errorf("text label = %+v, want %+v", c.labels[1], want)
	}
}

func TestDrawAnnotationsRingsMovingNote(t *testing.T) {
	v := New(config.Default(), Options{})
	note := annotation.NewNote(math.Vec3{})
	v.Annotations.AddNote(note)
	v.Annotations.SetMoveMode(note.ID)

	c := &recorder{}
	v.DrawAnnotations(c, annotation.Snapshot{
		Radius:    6,
		Positions: []annotation.ScreenPosition{{ID: note.ID, Kind: annotation.KindNote, OnScreen: true}},
	})

	if len(c.discs) != 2 || c.discs[0].c != overlay.ColorWhite || c.discs[0].r != 8 {
		t.Errorf("discs = %+v, want white ring under the marker", c.discs)
	}
	if len(c.labels) != 0 {
		t.Errorf("a note without text should have no label, got %+v", c.labels)
	}
}
