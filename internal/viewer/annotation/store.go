package annotation

import (
	"errors"
	"strings"
)

// ErrEmptyField is returned when a part is added with a blank node name or
// label.
var ErrEmptyField = errors.New("node name and label are required")

// ErrNotFound is returned for an unknown id.
var ErrNotFound = errors.New("annotation not found")

// Store holds the annotations of the loaded model in creation order.
type Store struct {
	notes []*Note
	texts []*Text
	parts []*Part

	moving       string
	selectedPart string

	// OnChange runs after every mutation.
	OnChange func()
	// OnSelectPart runs when the selected part changes, with the node
	// name to highlight ("" for none).
	OnSelectPart func(nodeName string)
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) changed() {
	if s.OnChange != nil {
		s.OnChange()
	}
}

// Notes returns the notes in creation order.
func (s *Store) Notes() []*Note {
	return s.notes
}

// Texts returns the text labels in creation order.
func (s *Store) Texts() []*Text {
	return s.texts
}

// Parts returns the parts in creation order.
func (s *Store) Parts() []*Part {
	return s.parts
}

// Note returns the note with id.
func (s *Store) Note(id string) (*Note, bool) {
	for _, n := range s.notes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// Text returns the text label with id.
func (s *Store) Text(id string) (*Text, bool) {
	for _, t := range s.texts {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// AddNote stores n.
func (s *Store) AddNote(n *Note) {
	s.notes = append(s.notes, n)
	s.changed()
}

// AddText stores t.
func (s *Store) AddText(t *Text) {
	s.texts = append(s.texts, t)
	s.changed()
}

// UpdateNote edits a note's text and vertical offset.
func (s *Store) UpdateNote(id, text string, offsetY float64) error {
	n, ok := s.Note(id)
	if !ok {
		return ErrNotFound
	}
	n.Text, n.OffsetY = text, offsetY
	s.changed()
	return nil
}

// UpdateText edits a text label.
func (s *Store) UpdateText(id string, fn func(*Text)) error {
	t, ok := s.Text(id)
	if !ok {
		return ErrNotFound
	}
	fn(t)
	t.ID = id
	s.changed()
	return nil
}

// DeleteNote removes a note. Deleting the note being moved ends move mode.
func (s *Store) DeleteNote(id string) bool {
	for i, n := range s.notes {
		if n.ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			if s.moving == id {
				s.moving = ""
			}
			s.changed()
			return true
		}
	}
	return false
}

// DeleteText removes a text label.
func (s *Store) DeleteText(id string) bool {
	for i, t := range s.texts {
		if t.ID == id {
			s.texts = append(s.texts[:i], s.texts[i+1:]...)
			s.changed()
			return true
		}
	}
	return false
}

// SetMoveMode marks the note that pointer drags move. An empty id or an
// unknown one turns move mode off.
func (s *Store) SetMoveMode(id string) {
	if _, ok := s.Note(id); !ok {
		id = ""
	}
	s.moving = id
}

// Moving returns the id of the note in move mode, "" for none.
func (s *Store) Moving() string {
	return s.moving
}

// AddPart labels a node. Both fields are trimmed and must be non-empty.
func (s *Store) AddPart(nodeName, label string) (*Part, error) {
	nodeName, label = strings.TrimSpace(nodeName), strings.TrimSpace(label)
	if nodeName == "" || label == "" {
		return nil, ErrEmptyField
	}
	p := &Part{ID: newID("part"), NodeName: nodeName, Label: label}
	s.parts = append(s.parts, p)
	s.changed()
	return p, nil
}

// DeletePart removes a part. Deleting the selected part clears the
// selection.
func (s *Store) DeletePart(id string) bool {
	for i, p := range s.parts {
		if p.ID == id {
			s.parts = append(s.parts[:i], s.parts[i+1:]...)
			if s.selectedPart == id {
				s.SelectPart("")
			}
			s.changed()
			return true
		}
	}
	return false
}

// SelectPart selects the part with id, or clears the selection for "".
func (s *Store) SelectPart(id string) {
	node := ""
	if id != "" {
		p := s.part(id)
		if p == nil {
			return
		}
		node = p.NodeName
	}
	s.selectedPart = id
	if s.OnSelectPart != nil {
		s.OnSelectPart(node)
	}
}

// SelectedPart returns the selected part, nil for none.
func (s *Store) SelectedPart() *Part {
	return s.part(s.selectedPart)
}

func (s *Store) part(id string) *Part {
	for _, p := range s.parts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Reset drops every annotation, part and selection.
func (s *Store) Reset() {
	s.notes, s.texts, s.parts = nil, nil, nil
	s.moving = ""
	if s.selectedPart != "" {
		s.SelectPart("")
	}
	s.changed()
}
