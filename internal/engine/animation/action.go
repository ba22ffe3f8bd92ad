package animation

import "math"

// LoopMode controls what an action does when its time reaches the clip end.
type LoopMode int

const (
	// LoopOnce plays the clip a single time and then finishes.
	LoopOnce LoopMode = iota
	// LoopRepeat restarts from zero for the configured repetitions.
	LoopRepeat
)

func (m LoopMode) String() string {
	if m == LoopRepeat {
		return "repeat"
	}
	return "once"
}

// Forever is the repetition count of an endlessly repeating action.
const Forever = -1

// Action is a playback handle bound to one clip. Actions are created and
// scheduled by a Mixer.
type Action struct {
	clip  *Clip
	mixer *Mixer

	time        float64
	timeScale   float64
	loop        LoopMode
	repetitions int
	loopCount   int

	enabled bool
	paused  bool
	active  bool

	// ClampWhenFinished keeps the last frame instead of releasing the pose
	// when a finite action completes.
	ClampWhenFinished bool
}

func newAction(m *Mixer, c *Clip) *Action {
	return &Action{
		clip:        c,
		mixer:       m,
		timeScale:   1,
		loop:        LoopRepeat,
		repetitions: Forever,
		enabled:     true,
	}
}

// Clip returns the clip this action plays.
func (a *Action) Clip() *Clip {
	return a.clip
}

// Play schedules the action in its mixer.
func (a *Action) Play() *Action {
	a.mixer.activate(a)
	return a
}

// Stop unschedules the action and resets it.
func (a *Action) Stop() *Action {
	a.mixer.deactivate(a)
	return a.Reset()
}

// Reset rewinds to time zero and clears the paused and finished states.
func (a *Action) Reset() *Action {
	a.paused = false
	a.enabled = true
	a.time = 0
	a.loopCount = 0
	return a
}

// SetLoop configures looping. Repetitions is ignored for LoopOnce; use
// Forever for endless repeat.
func (a *Action) SetLoop(mode LoopMode, repetitions int) *Action {
	a.loop = mode
	a.repetitions = repetitions
	return a
}

// Loop returns the loop mode and repetition count.
func (a *Action) Loop() (LoopMode, int) {
	return a.loop, a.repetitions
}

// SetEffectiveTimeScale sets the playback speed multiplier.
func (a *Action) SetEffectiveTimeScale(scale float64) *Action {
	a.timeScale = scale
	return a
}

// EffectiveTimeScale returns the playback speed multiplier.
func (a *Action) EffectiveTimeScale() float64 {
	return a.timeScale
}

// SetPaused freezes or resumes time advancement. The pose is kept.
func (a *Action) SetPaused(paused bool) *Action {
	a.paused = paused
	return a
}

// Paused reports whether time advancement is frozen.
func (a *Action) Paused() bool {
	return a.paused
}

// Enabled reports whether the action affects the pose. Finite actions
// disable themselves when they finish unless ClampWhenFinished is set.
func (a *Action) Enabled() bool {
	return a.enabled
}

// Time returns the local playhead in seconds.
func (a *Action) Time() float64 {
	return a.time
}

// SetTime moves the playhead.
func (a *Action) SetTime(t float64) *Action {
	a.time = t
	return a
}

// IsScheduled reports whether the mixer updates this action.
func (a *Action) IsScheduled() bool {
	return a.active
}

// IsRunning reports whether the action is scheduled and advancing.
func (a *Action) IsRunning() bool {
	return a.active && a.enabled && !a.paused && a.timeScale != 0
}

// advance moves the playhead by dt scaled by the time scale and handles
// looping. It returns true when the action finished during this step.
func (a *Action) advance(dt float64) bool {
	if !a.enabled || a.paused || a.timeScale == 0 {
		return false
	}
	duration := a.clip.Duration
	t := a.time + dt*a.timeScale

	if a.loop == LoopOnce || duration <= 0 {
		if t >= 0 && t < duration {
			a.time = t
			return false
		}
		a.time = clamp(t, 0, duration)
		a.finish()
		return true
	}

	if t >= 0 && t < duration {
		a.time = t
		return false
	}
	loops := int(math.Floor(t / duration))
	t -= duration * float64(loops)
	if loops < 0 {
		loops = -loops
	}
	a.loopCount += loops
	if a.repetitions != Forever && a.loopCount >= a.repetitions {
		if a.timeScale > 0 {
			a.time = duration
		} else {
			a.time = 0
		}
		a.finish()
		return true
	}
	a.time = t
	return false
}

func (a *Action) finish() {
	if a.ClampWhenFinished {
		a.paused = true
	} else {
		a.enabled = false
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
