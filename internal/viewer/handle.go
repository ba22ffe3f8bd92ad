package viewer

import (
	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/internal/viewer/sequencer"
)

// Handle is the imperative playback interface handed to UI code. It is
// owned by the Viewer that created it and must be passed explicitly.
type Handle struct {
	v *Viewer
}

// Play restarts the current selection, or resumes it when paused.
func (h *Handle) Play() {
	h.v.state.Animation.Playing = true
	h.v.sequencer.Play()
}

// Pause toggles the paused flag of the playing clip.
func (h *Handle) Pause() {
	h.v.sequencer.TogglePause()
}

// Stop halts playback and rewinds.
func (h *Handle) Stop() {
	h.v.state.Animation.Playing = false
	h.v.sequencer.Stop()
}

// Reset halts playback, rewinds and restores the rest pose.
func (h *Handle) Reset() {
	h.Stop()
	h.v.world.UpdateWorldMatrix()
}

// Root returns the loaded model's root node, nil when nothing is loaded.
func (h *Handle) Root() *scene.Node {
	return h.v.Root()
}

// State returns the sequencer state.
func (h *Handle) State() sequencer.State {
	return h.v.sequencer.State()
}

// ActiveClip returns the playing clip name.
func (h *Handle) ActiveClip() string {
	return h.v.sequencer.ActiveClip()
}
