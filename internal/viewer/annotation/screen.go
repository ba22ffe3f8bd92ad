package annotation

import (
	"slices"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/Faultbox/glbstudio/internal/engine/camera"
	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/pkg/math"
)

// Marker pulse radii in pixels. A full cycle takes two seconds.
const (
	PulseMin    = 6
	PulseMax    = 8
	pulseLength = 1
)

// ScreenPosition is where an annotation appears on the surface this frame.
type ScreenPosition struct {
	ID       string
	Kind     Kind
	X, Y     float64
	OnScreen bool
	// World is the projected world point, offset included.
	World math.Vec3
}

// Snapshot is one frame of projected positions.
type Snapshot struct {
	Frame     uint64
	Positions []ScreenPosition
	// Radius is the current note marker radius.
	Radius float64
}

// Position returns the entry for id.
func (s Snapshot) Position(id string) (ScreenPosition, bool) {
	for _, p := range s.Positions {
		if p.ID == id {
			return p, true
		}
	}
	return ScreenPosition{}, false
}

// Pulse oscillates the marker radius between PulseMin and PulseMax.
type Pulse struct {
	tweens [2]*gween.Tween
	phase  int
	radius float32
}

// NewPulse returns a pulse starting at PulseMin.
func NewPulse() *Pulse {
	return &Pulse{
		tweens: [2]*gween.Tween{
			gween.New(PulseMin, PulseMax, pulseLength, ease.InOutSine),
			gween.New(PulseMax, PulseMin, pulseLength, ease.InOutSine),
		},
		radius: PulseMin,
	}
}

// Update advances the pulse by dt seconds and returns the radius.
func (p *Pulse) Update(dt float64) float64 {
	v, done := p.tweens[p.phase].Update(float32(dt))
	p.radius = v
	if done {
		p.tweens[p.phase].Reset()
		p.phase ^= 1
	}
	return float64(p.radius)
}

// Radius returns the current radius.
func (p *Pulse) Radius() float64 {
	return float64(p.radius)
}

// ScreenStore publishes projected annotation positions once per frame.
// Readers take the latest snapshot or subscribe to every new one.
type ScreenStore struct {
	latest Snapshot
	pulse  *Pulse
	subs   []subscriber
	nextID int
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

// NewScreenStore returns an empty store.
func NewScreenStore() *ScreenStore {
	return &ScreenStore{pulse: NewPulse()}
}

// Latest returns the most recent snapshot.
func (s *ScreenStore) Latest() Snapshot {
	return s.latest
}

// Subscribe registers fn to receive every published snapshot, after the
// subscribers registered before it. The returned function unsubscribes.
func (s *ScreenStore) Subscribe(fn func(Snapshot)) (cancel func()) {
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool { return sub.id == id })
	}
}

// Update projects every annotation in store for this frame and publishes
// the result. root is searched for note bones.
func (s *ScreenStore) Update(dt float64, cam *camera.Camera, width, height float64, store *Store, root *scene.Node) Snapshot {
	snap := Snapshot{Frame: s.latest.Frame + 1, Radius: s.pulse.Update(dt)}

	project := func(id string, kind Kind, p math.Vec3) {
		x, y, visible := cam.Project(p, width, height)
		snap.Positions = append(snap.Positions, ScreenPosition{ID: id, Kind: kind, X: x, Y: y, OnScreen: visible, World: p})
	}
	for _, n := range store.Notes() {
		project(n.ID, KindNote, DisplayPosition(n, root))
	}
	for _, t := range store.Texts() {
		p := t.Position
		p.Y += t.OffsetY
		project(t.ID, KindText, p)
	}

	s.latest = snap
	for _, sub := range slices.Clone(s.subs) {
		sub.fn(snap)
	}
	return snap
}

// Reset clears the latest snapshot. Subscribers are kept.
func (s *ScreenStore) Reset() {
	s.latest = Snapshot{}
	s.pulse = NewPulse()
}
