package annotation

import (
	"github.com/Faultbox/glbstudio/internal/engine/camera"
	"github.com/Faultbox/glbstudio/internal/engine/picking"
	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/pkg/math"
)

// Placer turns pointer positions into annotations and drags notes.
// Model is the loaded model's root group and World the whole scene; either
// may be nil.
type Placer struct {
	Camera  *camera.Camera
	Surface picking.Rect
	Model   *scene.Node
	World   *scene.Node

	drag *drag
}

type drag struct {
	note   *Note
	point  math.Vec3
	normal math.Vec3
}

// Ray returns the world-space ray under the pointer.
func (p *Placer) Ray(px, py float64) picking.Ray {
	return picking.ScreenToRay(px, py, p.Surface, p.Camera.ViewProjection().Inverse())
}

// Pick returns the world point under the pointer: the model first, then
// the scene, then the ground plane.
func (p *Placer) Pick(px, py float64) (math.Vec3, picking.Source) {
	return picking.Pick(p.Ray(px, py), p.Model, p.World)
}

// PlaceNote creates a note under the pointer and anchors it to the nearest
// bone when the scene has skeletons.
func (p *Placer) PlaceNote(px, py float64) *Note {
	point, _ := p.Pick(px, py)
	n := NewNote(point)
	Anchor(n, p.bones())
	return n
}

// PlaceText creates a text label under the pointer.
func (p *Placer) PlaceText(px, py float64) *Text {
	point, _ := p.Pick(px, py)
	return NewText(point)
}

// Place creates an annotation of the given kind and stores it.
func (p *Placer) Place(s *Store, kind Kind, px, py float64) string {
	if kind == KindText {
		t := p.PlaceText(px, py)
		s.AddText(t)
		return t.ID
	}
	n := p.PlaceNote(px, py)
	s.AddNote(n)
	return n.ID
}

func (p *Placer) bones() *scene.Node {
	if p.World != nil {
		return p.World
	}
	return p.Model
}

// BeginDrag starts moving the note in move mode. The vertical offset is
// folded into the position so the marker stays where it is drawn, and the
// pointer is projected onto the plane through that point facing the camera.
func (p *Placer) BeginDrag(s *Store) bool {
	n, ok := s.Note(s.Moving())
	if !ok {
		return false
	}
	point := DisplayPosition(n, p.bones())
	n.Position = point
	n.OffsetY = 0
	n.dragging = true
	p.drag = &drag{note: n, point: point, normal: p.Camera.Forward().Scale(-1)}
	return true
}

// Dragging reports whether a drag is in progress.
func (p *Placer) Dragging() bool {
	return p.drag != nil
}

// DragTo moves the dragged note to the pointer.
func (p *Placer) DragTo(px, py float64) {
	if p.drag == nil {
		return
	}
	r := p.Ray(px, py)
	if t, ok := r.IntersectPlane(p.drag.point, p.drag.normal); ok {
		p.drag.note.Position = r.At(t)
	}
}

// EndDrag leaves the note at its dragged position as a plain world point
// and turns move mode off.
func (p *Placer) EndDrag(s *Store) {
	if p.drag == nil {
		return
	}
	n := p.drag.note
	n.dragging = false
	n.Attachment = nil
	n.OffsetY = 0
	p.drag = nil
	s.SetMoveMode("")
	s.changed()
}

// CancelDrag abandons a drag without committing it, used on model reset.
func (p *Placer) CancelDrag() {
	if p.drag != nil {
		p.drag.note.dragging = false
		p.drag = nil
	}
}
