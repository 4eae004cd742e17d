// Package gesture turns pointer input into drawing commands.
//
// A Machine is Idle until a pointer-down starts a gesture with the current
// tool, colour and width. Pointer moves update the provisional shape and,
// for freehand tools, draw a preview segment. Pointer-up builds the
// command, executes it once and appends it to the history.
package gesture

import (
	"fmt"
	"image"

	"LocalSketch/internal/command"
	"LocalSketch/internal/gfx"
	"LocalSketch/internal/history"
	"LocalSketch/internal/logging"
)

// State is the gesture state.
type State int

const (
	Idle State = iota
	Gesturing
)

func (s State) String() string {
	if s == Gesturing {
		return "gesturing"
	}
	return "idle"
}

// Option configures a Machine.
type Option func(*Machine)

func WithTool(k command.Kind) Option { return func(m *Machine) { m.tool = k } }
func WithColor(c gfx.RGB) Option     { return func(m *Machine) { m.color = c } }
func WithPenWidth(w int) Option      { return func(m *Machine) { m.width = max(w, 1) } }
func WithFont(f gfx.FontDesc) Option { return func(m *Machine) { m.font = f } }

// Machine holds the interactive drawing state. It is not safe for
// concurrent use; feed it from the UI goroutine.
type Machine struct {
	hist *history.History

	tool  command.Kind
	color gfx.RGB
	width int
	font  gfx.FontDesc

	state State
	cur   command.DrawData

	textAt      image.Point
	textPending bool
}

// New returns an idle machine appending to h. The defaults are a black
// pencil of width 1.
func New(h *history.History, opts ...Option) *Machine {
	m := &Machine{
		hist:  h,
		tool:  command.Pencil,
		color: gfx.Black,
		width: 1,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) State() State              { return m.state }
func (m *Machine) Tool() command.Kind        { return m.tool }
func (m *Machine) Color() gfx.RGB            { return m.color }
func (m *Machine) PenWidth() int             { return m.width }
func (m *Machine) Font() gfx.FontDesc        { return m.font }
func (m *Machine) History() *history.History { return m.hist }

// SetTool selects the tool for the next gesture. A gesture or text
// placement in progress is cancelled.
func (m *Machine) SetTool(k command.Kind) error {
	if !k.Valid() {
		return fmt.Errorf("gesture: invalid tool %s", k)
	}
	m.Cancel()
	m.tool = k
	return nil
}

// SetColor sets the stroke colour for the next gesture.
func (m *Machine) SetColor(c gfx.RGB) { m.color = c }

// SetPenWidth sets the pen width for the next gesture.
func (m *Machine) SetPenWidth(w int) error {
	if w < 1 {
		return fmt.Errorf("gesture: pen width %d must be positive", w)
	}
	m.width = w
	return nil
}

// SetFont sets the font for the next text command.
func (m *Machine) SetFont(f gfx.FontDesc) { m.font = f }

// PointerDown starts a gesture at p. With the Text tool it only records
// the placement point; see CommitText. A pointer-down during a gesture
// restarts it.
func (m *Machine) PointerDown(p image.Point) {
	if m.tool == command.Text {
		m.textAt, m.textPending = p, true
		return
	}
	m.cur = command.DrawData{
		Kind:     m.tool,
		Begin:    p,
		End:      p,
		PenWidth: m.width,
		Stroke:   m.color,
	}
	if m.tool.Freehand() {
		m.cur.Points = []image.Point{p}
	}
	m.state = Gesturing
}

// PointerMove extends the gesture to p. Freehand tools draw the new
// segment into dc as a preview.
func (m *Machine) PointerMove(dc gfx.DC, p image.Point) {
	if m.state != Gesturing {
		return
	}
	m.cur.End = p
	if !m.tool.Freehand() {
		return
	}
	last := m.cur.Points[len(m.cur.Points)-1]
	if last == p {
		return
	}
	m.cur.Points = append(m.cur.Points, p)
	if gfx.IsNil(dc) {
		return
	}
	col := m.cur.Stroke
	if m.tool == command.Eraser {
		col = dc.BkColor()
	}
	if err := command.StrokeSegment(dc, last, p, m.cur.PenWidth, col); err != nil {
		logging.Logger().Warn("preview failed", "tool", m.tool, "err", err)
	}
}

// PointerUp ends the gesture at p. It executes the resulting command on
// dc, appends it to the history and returns it. A freehand gesture with
// fewer than two distinct points produces nothing.
func (m *Machine) PointerUp(dc gfx.DC, p image.Point) (command.Command, bool) {
	if m.state != Gesturing {
		return nil, false
	}
	m.cur.End = p
	if m.tool.Freehand() && m.cur.Points[len(m.cur.Points)-1] != p {
		m.cur.Points = append(m.cur.Points, p)
	}
	data := m.cur
	m.reset()

	if data.Kind.Freehand() && len(data.Points) < 2 {
		logging.Logger().Debug("gesture discarded", "tool", data.Kind, "points", len(data.Points))
		return nil, false
	}
	return m.finish(dc, data)
}

// Cancel abandons the gesture or text placement in progress. No command is
// produced.
func (m *Machine) Cancel() {
	m.reset()
	m.CancelText()
}

// Preview returns the provisional data of the gesture in progress.
func (m *Machine) Preview() (command.DrawData, bool) {
	if m.state != Gesturing {
		return command.DrawData{}, false
	}
	return m.cur.Clone(), true
}

// PendingText returns the placement point recorded by a Text tool
// pointer-down.
func (m *Machine) PendingText() (image.Point, bool) {
	return m.textAt, m.textPending
}

// CommitText places text at the pending placement point, executes the
// command on dc and appends it. Empty text or a missing placement produce
// nothing.
func (m *Machine) CommitText(dc gfx.DC, text string) (command.Command, bool) {
	if !m.textPending {
		return nil, false
	}
	at := m.textAt
	m.CancelText()
	if text == "" {
		return nil, false
	}
	return m.finish(dc, command.DrawData{
		Kind:     command.Text,
		Begin:    at,
		End:      at,
		PenWidth: m.width,
		Stroke:   m.color,
		Text:     text,
		Font:     m.font,
	})
}

// CancelText drops a pending text placement.
func (m *Machine) CancelText() {
	m.textAt, m.textPending = image.Point{}, false
}

func (m *Machine) finish(dc gfx.DC, data command.DrawData) (command.Command, bool) {
	cmd, err := command.New(data)
	if err != nil {
		logging.Logger().Warn("gesture rejected", "tool", data.Kind, "err", err)
		return nil, false
	}
	cmd.Execute(dc)
	m.hist.Append(cmd)
	logging.Logger().Debug("command added", "id", cmd.ID(), "kind", cmd.Kind())
	return cmd, true
}

func (m *Machine) reset() {
	m.state = Idle
	m.cur = command.DrawData{}
}
