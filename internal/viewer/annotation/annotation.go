// Package annotation keeps notes, text labels and named parts placed on a
// model. Notes may be anchored to a bone so they follow skeletal
// animation; their live position is derived every frame.
package annotation

import (
	"time"

	"github.com/google/uuid"

	"github.com/Faultbox/glbstudio/pkg/math"
)

// Defaults for new annotations.
const (
	DefaultNoteOffsetY = 0.5
	DefaultText        = "New Text"
	DefaultFontSize    = 16
	DefaultTextColor   = "#ffffff"
	DefaultTextOffsetY = 0.5
)

// BoneAttachment places a note relative to a bone.
type BoneAttachment struct {
	Bone string
	// Offset is the placement point in the bone's local space.
	Offset math.Vec3
}

// Note is a marker with a free-form text. When Attachment is set, Position
// only records where the note was placed; the live position comes from
// the bone.
type Note struct {
	ID         string
	Position   math.Vec3
	Text       string
	OffsetY    float64
	CreatedAt  time.Time
	Attachment *BoneAttachment

	dragging bool
}

// Attached reports whether the note follows a bone.
func (n *Note) Attached() bool {
	return n.Attachment != nil && n.Attachment.Bone != ""
}

// Text is a styled label at a fixed world point.
type Text struct {
	ID        string
	Position  math.Vec3
	Text      string
	FontSize  float64
	Color     string
	OffsetY   float64
	CreatedAt time.Time
}

// Part maps a user label onto a discovered node name.
type Part struct {
	ID       string
	NodeName string
	Label    string
}

// Kind tells notes and texts apart.
type Kind int

const (
	KindNote Kind = iota
	KindText
)

func (k Kind) String() string {
	if k == KindText {
		return "text"
	}
	return "note"
}

func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// NewNote creates an unattached note at p with default text and offset.
func NewNote(p math.Vec3) *Note {
	return &Note{
		ID:        newID("note"),
		Position:  p,
		OffsetY:   DefaultNoteOffsetY,
		CreatedAt: time.Now(),
	}
}

// NewText creates a text label at p with default styling.
func NewText(p math.Vec3) *Text {
	return &Text{
		ID:        newID("text"),
		Position:  p,
		Text:      DefaultText,
		FontSize:  DefaultFontSize,
		Color:     DefaultTextColor,
		OffsetY:   DefaultTextOffsetY,
		CreatedAt: time.Now(),
	}
}
