package animation

// Clip is a named animation timeline.
type Clip struct {
	Name     string
	Duration float64
	Tracks   []*Track
}

// NewClip creates a clip whose duration is the latest keyframe of any track.
func NewClip(name string, tracks []*Track) *Clip {
	c := &Clip{Name: name, Tracks: tracks}
	for _, t := range tracks {
		if d := t.Duration(); d > c.Duration {
			c.Duration = d
		}
	}
	return c
}

// Apply samples every track at time.
func (c *Clip) Apply(time float64) {
	for _, t := range c.Tracks {
		t.Apply(time)
	}
}

// Names returns the names of clips in order.
func Names(clips []*Clip) []string {
	names := make([]string, len(clips))
	for i, c := range clips {
		names[i] = c.Name
	}
	return names
}
