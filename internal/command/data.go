package command

import (
	"errors"
	"fmt"
	"image"
	"slices"

	"LocalSketch/internal/gfx"
)

// DrawData holds the parameters of one drawing action.
//
// Begin and End are the line end points, the opposite corners of the
// bounding box for rectangles, circles and ellipses, and Begin is the text
// anchor. Points is only used by Pencil and Eraser, Text and Font only by
// Text. Fill is reserved for filled variants.
type DrawData struct {
	Kind     Kind          `json:"kind"`
	Begin    image.Point   `json:"begin"`
	End      image.Point   `json:"end"`
	PenWidth int           `json:"penWidth"`
	Stroke   gfx.RGB       `json:"stroke"`
	Fill     gfx.RGB       `json:"fill"`
	Text     string        `json:"text,omitempty"`
	Font     gfx.FontDesc  `json:"font,omitzero"`
	Points   []image.Point `json:"points,omitempty"`
}

// Clone returns a deep copy of d.
func (d DrawData) Clone() DrawData {
	d.Points = slices.Clone(d.Points)
	return d
}

// Bounds returns the rectangle spanned by Begin and End.
func (d DrawData) Bounds() image.Rectangle {
	return image.Rectangle{Min: d.Begin, Max: d.End}.Canon()
}

// Validate reports whether d can back a command.
func (d DrawData) Validate() error {
	if !d.Kind.Valid() {
		return fmt.Errorf("command: invalid kind %d", int(d.Kind))
	}
	if d.PenWidth < 1 {
		return fmt.Errorf("command: %s pen width %d must be positive", d.Kind, d.PenWidth)
	}
	if d.Kind == Text && d.Text == "" {
		return errors.New("command: text command without text")
	}
	return nil
}
