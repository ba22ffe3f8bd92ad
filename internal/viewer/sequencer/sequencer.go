// Package sequencer plays a single animation clip or an ordered list of
// clips, chaining to the next clip when the current one reaches its end.
package sequencer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/glbstudio/internal/engine/animation"
)

// Epsilon is how close to its duration a clip must be to count as ended.
const Epsilon = 0.01

// State is the playback state of a Sequencer.
type State int

const (
	Idle State = iota
	SinglePlaying
	SequencePlaying
)

func (s State) String() string {
	switch s {
	case SinglePlaying:
		return "single"
	case SequencePlaying:
		return "sequence"
	default:
		return "idle"
	}
}

// Selection is what the sequencer was last asked to play.
type Selection struct {
	Clip     string
	Sequence []string
	// SequenceMode plays Sequence instead of Clip.
	SequenceMode bool
}

// Sequencer drives the actions of one mixer.
type Sequencer struct {
	mixer *animation.Mixer
	log   *zap.Logger

	state     State
	selection Selection
	cursor    int
	active    *animation.Action

	loop  bool
	speed float64
}

// New creates an idle sequencer over mixer. Loop defaults to true and
// speed to 1.
func New(mixer *animation.Mixer, log *zap.Logger) *Sequencer {
	if log == nil {
		log = zap.NewNop()
	}
	if mixer == nil {
		mixer = animation.NewMixer(nil)
	}
	return &Sequencer{mixer: mixer, log: log, loop: true, speed: 1}
}

// State returns the current playback state.
func (s *Sequencer) State() State {
	return s.state
}

// Cursor returns the index of the playing clip within the sequence.
func (s *Sequencer) Cursor() int {
	return s.cursor
}

// Active returns the playing action, nil when idle.
func (s *Sequencer) Active() *animation.Action {
	return s.active
}

// ActiveClip returns the name of the playing clip, "" when idle.
func (s *Sequencer) ActiveClip() string {
	if s.active == nil {
		return ""
	}
	return s.active.Clip().Name
}

// Paused reports whether the active clip is paused.
func (s *Sequencer) Paused() bool {
	return s.active != nil && s.active.Paused()
}

// Selection returns the last selection.
func (s *Sequencer) Selection() Selection {
	return s.selection
}

// PlayClip restarts playback with a single clip. Loop selects endless
// repeat, otherwise the clip plays once.
func (s *Sequencer) PlayClip(name string) {
	s.selection = Selection{Clip: name}
	s.start()
}

// PlaySequence restarts playback with an ordered list of clips.
func (s *Sequencer) PlaySequence(names []string) {
	s.selection = Selection{Sequence: append([]string(nil), names...), SequenceMode: true}
	s.start()
}

// Play restarts the last selection from the beginning. A paused clip is
// resumed instead.
func (s *Sequencer) Play() {
	if s.active != nil && s.active.Paused() {
		s.active.SetPaused(false)
		return
	}
	s.start()
}

// TogglePause flips the paused flag of the active clip.
func (s *Sequencer) TogglePause() {
	if s.active != nil {
		s.active.SetPaused(!s.active.Paused())
	}
}

// Stop halts every clip and returns to Idle. The selection is kept.
func (s *Sequencer) Stop() {
	s.mixer.StopAllAction()
	s.active = nil
	s.cursor = 0
	s.state = Idle
}

// Reset is Stop followed by clearing the selection.
func (s *Sequencer) Reset() {
	s.Stop()
	s.selection = Selection{}
}

// SetSpeed changes the time scale of the active clip without restarting.
func (s *Sequencer) SetSpeed(speed float64) {
	s.speed = speed
	if s.active != nil {
		s.active.SetEffectiveTimeScale(speed)
	}
}

// Speed returns the current time scale.
func (s *Sequencer) Speed() float64 {
	return s.speed
}

// SetLoop changes the loop flag. A single clip switches loop mode in
// place; a sequence applies the flag when it reaches its last clip.
func (s *Sequencer) SetLoop(loop bool) {
	s.loop = loop
	if s.active != nil && s.state == SinglePlaying {
		s.active.SetLoop(singleLoop(loop))
	}
}

// Loop returns the loop flag.
func (s *Sequencer) Loop() bool {
	return s.loop
}

// Update advances the mixer by dt seconds, then chains to the next clip
// of a sequence whose current clip has ended.
func (s *Sequencer) Update(dt float64) {
	s.mixer.Update(dt)
	if s.state != SequencePlaying || s.active == nil {
		return
	}
	if s.active.Time() < s.active.Clip().Duration-Epsilon {
		return
	}

	next := s.cursor + 1
	if next >= len(s.selection.Sequence) {
		if !s.loop {
			s.Stop()
			return
		}
		next = 0
	}
	s.active.Stop()
	if !s.playOnce(next) {
		s.Stop()
	}
}

// start puts the sequencer in the state the selection asks for.
func (s *Sequencer) start() {
	s.Stop()
	sel := s.selection

	if sel.SequenceMode {
		if len(sel.Sequence) == 0 || !s.playOnce(0) {
			return
		}
		s.state = SequencePlaying
		return
	}

	a, ok := s.action(sel.Clip)
	if !ok {
		return
	}
	a.SetLoop(singleLoop(s.loop)).SetEffectiveTimeScale(s.speed).Reset().Play()
	s.active = a
	s.state = SinglePlaying
}

// playOnce plays the sequence clip at index i a single time.
func (s *Sequencer) playOnce(i int) bool {
	a, ok := s.action(s.selection.Sequence[i])
	if !ok {
		return false
	}
	a.SetLoop(animation.LoopOnce, 0).SetEffectiveTimeScale(s.speed).Reset().Play()
	s.active = a
	s.cursor = i
	return true
}

func (s *Sequencer) action(name string) (*animation.Action, bool) {
	if name == "" {
		return nil, false
	}
	a, ok := s.mixer.Action(name)
	if !ok {
		s.log.Debug("animation clip not found", zap.String("clip", name))
	}
	return a, ok
}

func singleLoop(loop bool) (animation.LoopMode, int) {
	if loop {
		return animation.LoopRepeat, animation.Forever
	}
	return animation.LoopOnce, 0
}
