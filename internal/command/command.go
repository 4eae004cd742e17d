// Package command implements the undoable drawing commands. A command
// captures the parameters of one drawing action and can render it
// (Execute), erase it by rendering the same geometry in the background
// colour (Undo), and copy itself (Clone).
//
// Rendering failures never escape a command: they are logged and the
// command becomes a no-op for that call, so one broken command cannot stop
// a replay of the whole history.
package command

import (
	"fmt"

	"github.com/google/uuid"

	"LocalSketch/internal/gfx"
	"LocalSketch/internal/logging"
)

// Command is one drawing action. The set of implementations is closed:
// *LineCommand, *RectangleCommand, *EllipseCommand, *PencilCommand,
// *EraserCommand and *TextCommand.
type Command interface {
	// ID identifies this command instance in diagnostics.
	ID() string
	Kind() Kind
	// Data returns a copy of the captured parameters.
	Data() DrawData

	// Execute renders the command into dc. A nil dc is a no-op.
	Execute(dc gfx.DC)
	// Undo renders the same geometry in dc's background colour. A nil dc
	// is a no-op.
	Undo(dc gfx.DC)
	// Clone returns an independent command with identical data.
	Clone() Command

	isCommand()
}

// New builds the command for data.Kind. The data is copied.
func New(data DrawData) (Command, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	b := newBase(data)
	switch data.Kind {
	case LineSegment:
		return &LineCommand{b}, nil
	case Rectangle:
		return &RectangleCommand{b}, nil
	case Circle, Ellipse:
		return &EllipseCommand{b}, nil
	case Pencil:
		return &PencilCommand{b}, nil
	case Eraser:
		return &EraserCommand{b}, nil
	case Text:
		return &TextCommand{b}, nil
	}
	return nil, fmt.Errorf("command: unhandled kind %s", data.Kind)
}

// MustNew is like New but panics on invalid data. It is meant for tests
// and literals.
func MustNew(data DrawData) Command {
	c, err := New(data)
	if err != nil {
		panic(err)
	}
	return c
}

type base struct {
	id   string
	data DrawData
}

func newBase(data DrawData) base {
	return base{id: uuid.NewString(), data: data.Clone()}
}

func (b *base) ID() string     { return b.id }
func (b *base) Kind() Kind     { return b.data.Kind }
func (b *base) Data() DrawData { return b.data.Clone() }
func (b *base) String() string { return fmt.Sprintf("%s(%s)", b.data.Kind, b.id[:8]) }
func (b *base) clone() base    { return newBase(b.data) }
func (b *base) isCommand()     {}

// phase names the operation being run, for diagnostics.
type phase string

const (
	phaseExecute phase = "execute"
	phaseUndo    phase = "undo"
)

// run calls render unless dc is absent, and turns errors and panics into a
// logged no-op.
func (b *base) run(dc gfx.DC, ph phase, render func(dc gfx.DC) error) {
	if gfx.IsNil(dc) {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logging.Logger().Error("draw command panicked",
				"id", b.id, "kind", b.data.Kind, "phase", ph, "panic", r)
		}
	}()
	if err := render(dc); err != nil {
		logging.Logger().Warn("draw command failed",
			"id", b.id, "kind", b.data.Kind, "phase", ph, "err", err)
	}
}
