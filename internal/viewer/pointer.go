package viewer

import (
	"github.com/Faultbox/glbstudio/internal/viewer/annotation"
)

// PlaceMode arms the next click to create an annotation of kind. Pass nil
// to disarm.
func (v *Viewer) PlaceMode(kind *annotation.Kind) {
	v.placing = kind
}

// Placing returns the armed annotation kind, nil when none.
func (v *Viewer) Placing() *annotation.Kind {
	return v.placing
}

// PointerDown starts dragging the note in move mode, if any. It reports
// whether the press was consumed.
func (v *Viewer) PointerDown(x, y float64) bool {
	if v.Annotations.Moving() == "" {
		return false
	}
	v.world.UpdateWorldMatrix()
	if !v.placer.BeginDrag(v.Annotations) {
		return false
	}
	v.placer.DragTo(x, y)
	return true
}

// PointerDrag moves the dragged note, or orbits the camera.
func (v *Viewer) PointerDrag(x, y, dx, dy float64) {
	if v.placer.Dragging() {
		v.placer.DragTo(x, y)
		return
	}
	if !v.Interpolator.Active() {
		v.Orbit.HandleDrag(dx, dy, v.height)
	}
}

// PointerRelease ends a note drag.
func (v *Viewer) PointerRelease() {
	v.placer.EndDrag(v.Annotations)
}

// PointerClick places an annotation when placement is armed and returns
// its id. Placement disarms after one annotation.
func (v *Viewer) PointerClick(x, y float64) (string, bool) {
	if v.placing == nil {
		return "", false
	}
	kind := *v.placing
	v.placing = nil
	v.world.UpdateWorldMatrix()
	return v.placer.Place(v.Annotations, kind, x, y), true
}

// Zoom applies a wheel step; positive moves closer.
func (v *Viewer) Zoom(delta float64) {
	if !v.Interpolator.Active() {
		v.Orbit.HandleZoom(delta)
	}
}
