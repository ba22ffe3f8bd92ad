package animation

import (
	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/pkg/math"
)

type pose struct {
	position math.Vec3
	rotation math.Quat
	scale    math.Vec3
}

// Mixer owns the actions of a model and applies scheduled ones every frame.
type Mixer struct {
	actions    []*Action
	byClip     map[*Clip]*Action
	scheduled  []*Action
	rest       map[*scene.Node]pose
	onFinished []func(*Action)
	time       float64
}

// NewMixer creates a mixer with one action per clip. The current transform
// of every animated node is recorded as its rest pose.
func NewMixer(clips []*Clip) *Mixer {
	m := &Mixer{
		byClip: make(map[*Clip]*Action),
		rest:   make(map[*scene.Node]pose),
	}
	for _, c := range clips {
		m.ClipAction(c)
	}
	return m
}

// ClipAction returns the action for c, creating it on first use.
func (m *Mixer) ClipAction(c *Clip) *Action {
	if a, ok := m.byClip[c]; ok {
		return a
	}
	for _, t := range c.Tracks {
		if t.Target == nil {
			continue
		}
		if _, ok := m.rest[t.Target]; !ok {
			m.rest[t.Target] = pose{t.Target.Position, t.Target.Rotation, t.Target.Scale}
		}
	}
	a := newAction(m, c)
	m.byClip[c] = a
	m.actions = append(m.actions, a)
	return a
}

// Action returns the action of the first clip with the given name.
func (m *Mixer) Action(name string) (*Action, bool) {
	for _, a := range m.actions {
		if a.clip.Name == name {
			return a, true
		}
	}
	return nil, false
}

// Actions returns every action in clip order.
func (m *Mixer) Actions() []*Action {
	return m.actions
}

// OnFinished registers fn to run when a finite action completes.
func (m *Mixer) OnFinished(fn func(*Action)) {
	m.onFinished = append(m.onFinished, fn)
}

// StopAllAction stops and resets every action.
func (m *Mixer) StopAllAction() {
	for _, a := range m.actions {
		a.Stop()
	}
}

// Time returns the accumulated mixer time.
func (m *Mixer) Time() float64 {
	return m.time
}

// Update advances every scheduled action by dt seconds and writes the
// resulting pose to the animated nodes. Actions later in schedule order
// win where tracks overlap.
func (m *Mixer) Update(dt float64) {
	m.time += dt
	var finished []*Action
	for _, a := range m.scheduled {
		if a.advance(dt) {
			finished = append(finished, a)
		}
	}
	for _, a := range m.scheduled {
		if a.enabled {
			a.clip.Apply(a.time)
		}
	}
	for _, a := range finished {
		if !a.enabled {
			m.restore(a.clip)
		}
		for _, fn := range m.onFinished {
			fn(a)
		}
	}
}

func (m *Mixer) activate(a *Action) {
	if a.active {
		return
	}
	a.active = true
	m.scheduled = append(m.scheduled, a)
}

func (m *Mixer) deactivate(a *Action) {
	if !a.active {
		return
	}
	a.active = false
	for i, s := range m.scheduled {
		if s == a {
			m.scheduled = append(m.scheduled[:i], m.scheduled[i+1:]...)
			break
		}
	}
	m.restore(a.clip)
}

// restore puts the clip's nodes back to their rest pose unless another
// enabled scheduled action still drives them.
func (m *Mixer) restore(c *Clip) {
	driven := make(map[*scene.Node]bool)
	for _, s := range m.scheduled {
		if s.enabled && s.clip != c {
			for _, t := range s.clip.Tracks {
				driven[t.Target] = true
			}
		}
	}
	for _, t := range c.Tracks {
		if t.Target == nil || driven[t.Target] {
			continue
		}
		if p, ok := m.rest[t.Target]; ok {
			t.Target.Position, t.Target.Rotation, t.Target.Scale = p.position, p.rotation, p.scale
		}
	}
}
