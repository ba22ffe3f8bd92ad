// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
	EventDropFile
)

// Mouse buttons.
const (
	ButtonLeft   = sdl.BUTTON_LEFT
	ButtonMiddle = sdl.BUTTON_MIDDLE
	ButtonRight  = sdl.BUTTON_RIGHT
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Mod    uint16
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int // Relative motion for EventMouseMove
	DeltaY int
	Wheel  float32 // Positive scrolls away from the user
	Button uint8
	Path   string // Dropped file for EventDropFile
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them to viewer events.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			typ := EventKeyUp
			if e.Type == sdl.KEYDOWN {
				typ = EventKeyDown
			}
			i.events = append(i.events, Event{
				Type: typ,
				Key:  e.Keysym.Scancode,
				Mod:  e.Keysym.Mod,
			})

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				DeltaX: int(e.XRel),
				DeltaY: int(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			typ := EventMouseUp
			if e.Type == sdl.MOUSEBUTTONDOWN {
				typ = EventMouseDown
			}
			i.events = append(i.events, Event{
				Type:   typ,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			})

		case *sdl.MouseWheelEvent:
			wheel := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				wheel = -wheel
			}
			i.events = append(i.events, Event{Type: EventMouseWheel, Wheel: wheel})

		case *sdl.DropEvent:
			if e.Type == sdl.DROPFILE {
				i.events = append(i.events, Event{Type: EventDropFile, Path: e.File})
			}
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
