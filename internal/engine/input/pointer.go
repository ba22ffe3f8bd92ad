package input

// ClickSlop is how far, in pixels, the pointer may travel between press and
// release and still count as a click.
const ClickSlop = 4

// Gesture is what a pointer event turned out to be.
type Gesture int

const (
	GestureNone Gesture = iota
	GestureDrag
	GestureClick
	GestureRelease // End of a drag
)

// Pointer tells clicks from drags for one mouse button.
type Pointer struct {
	Button uint8

	down           bool
	dragging       bool
	startX, startY int
	X, Y           int
	DX, DY         int // Motion since the previous drag event
}

// NewPointer tracks the given button.
func NewPointer(button uint8) *Pointer {
	return &Pointer{Button: button}
}

// Down reports whether the button is held.
func (p *Pointer) Down() bool {
	return p.down
}

// Handle feeds one event and returns the gesture it completes.
func (p *Pointer) Handle(e Event) Gesture {
	switch e.Type {
	case EventMouseDown:
		if e.Button != p.Button {
			return GestureNone
		}
		p.down, p.dragging = true, false
		p.startX, p.startY = e.MouseX, e.MouseY
		p.X, p.Y = e.MouseX, e.MouseY

	case EventMouseMove:
		p.DX, p.DY = e.MouseX-p.X, e.MouseY-p.Y
		p.X, p.Y = e.MouseX, e.MouseY
		if !p.down {
			return GestureNone
		}
		if !p.dragging && abs(p.X-p.startX)+abs(p.Y-p.startY) > ClickSlop {
			p.dragging = true
		}
		if p.dragging {
			return GestureDrag
		}

	case EventMouseUp:
		if e.Button != p.Button || !p.down {
			return GestureNone
		}
		p.down = false
		p.X, p.Y = e.MouseX, e.MouseY
		if p.dragging {
			p.dragging = false
			return GestureRelease
		}
		return GestureClick
	}
	return GestureNone
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
