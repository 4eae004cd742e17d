// Package gfxtest provides a recording drawing context for tests.
package gfxtest

import (
	"errors"
	"fmt"
	"image"

	"LocalSketch/internal/gfx"
)

// Object is a graphics object created by a Recorder.
type Object struct {
	kind  gfx.Kind
	id    int
	stock bool

	Style gfx.PenStyle
	Width int
	Color gfx.RGB
	Null  bool
	Font  gfx.FontDesc
}

// Kind implements gfx.Object.
func (o *Object) Kind() gfx.Kind { return o.kind }

func (o *Object) String() string {
	return fmt.Sprintf("%s#%d", o.kind, o.id)
}

// Call is one recorded drawing primitive together with the state it was
// drawn with.
type Call struct {
	Op     string // "line", "rect", "ellipse", "text"
	P0, P1 image.Point
	Rect   image.Rectangle
	Text   string

	Pen       Object
	Brush     Object
	Font      Object
	TextColor gfx.RGB
}

// Recorder implements gfx.DC by recording every call. It is not safe for
// concurrent use.
type Recorder struct {
	Background gfx.RGB
	Calls      []Call

	// FailCreate, when set, makes creation of matching kinds fail.
	FailCreate func(kind gfx.Kind) bool
	// FailSelect, when set, makes selection of matching objects fail.
	FailSelect func(obj gfx.Object) bool
	// PanicOn, when set, makes drawing operations with that name panic.
	PanicOn string

	nextID    int
	created   int
	deleted   int
	live      map[*Object]bool
	stock     map[gfx.Stock]*Object
	pen       *Object
	brush     *Object
	font      *Object
	textColor gfx.RGB
}

var _ gfx.DC = (*Recorder)(nil)

// New returns a Recorder with the given background colour and stock
// black pen, white brush and system font selected.
func New(bg gfx.RGB) *Recorder {
	r := &Recorder{
		Background: bg,
		live:       make(map[*Object]bool),
		stock:      make(map[gfx.Stock]*Object),
	}
	r.stock[gfx.BlackPen] = r.newObject(gfx.KindPen, true)
	r.stock[gfx.BlackPen].Width = 1
	r.stock[gfx.NullPen] = r.newObject(gfx.KindPen, true)
	r.stock[gfx.NullPen].Style = gfx.PenNull
	r.stock[gfx.WhiteBrush] = r.newObject(gfx.KindBrush, true)
	r.stock[gfx.WhiteBrush].Color = gfx.White
	r.stock[gfx.NullBrush] = r.newObject(gfx.KindBrush, true)
	r.stock[gfx.NullBrush].Null = true
	r.stock[gfx.SystemFont] = r.newObject(gfx.KindFont, true)
	r.pen = r.stock[gfx.BlackPen]
	r.brush = r.stock[gfx.WhiteBrush]
	r.font = r.stock[gfx.SystemFont]
	return r
}

func (r *Recorder) newObject(kind gfx.Kind, stock bool) *Object {
	r.nextID++
	return &Object{kind: kind, id: r.nextID, stock: stock}
}

func (r *Recorder) alloc(kind gfx.Kind) (*Object, error) {
	if r.FailCreate != nil && r.FailCreate(kind) {
		return nil, fmt.Errorf("gfxtest: %w: injected %s failure", gfx.ErrResourceCreation, kind)
	}
	o := r.newObject(kind, false)
	r.live[o] = true
	r.created++
	return o, nil
}

// CreatePen implements gfx.Device.
func (r *Recorder) CreatePen(style gfx.PenStyle, width int, c gfx.RGB) (gfx.Object, error) {
	o, err := r.alloc(gfx.KindPen)
	if err != nil {
		return nil, err
	}
	o.Style, o.Width, o.Color = style, width, c
	return o, nil
}

// CreateSolidBrush implements gfx.Device.
func (r *Recorder) CreateSolidBrush(c gfx.RGB) (gfx.Object, error) {
	o, err := r.alloc(gfx.KindBrush)
	if err != nil {
		return nil, err
	}
	o.Color = c
	return o, nil
}

// CreateFont implements gfx.Device.
func (r *Recorder) CreateFont(desc gfx.FontDesc) (gfx.Object, error) {
	o, err := r.alloc(gfx.KindFont)
	if err != nil {
		return nil, err
	}
	o.Font = desc
	return o, nil
}

// DeleteObject implements gfx.Device. Deleting a selected, stock or
// unknown object fails.
func (r *Recorder) DeleteObject(obj gfx.Object) error {
	o, ok := obj.(*Object)
	if !ok || o == nil || !r.live[o] {
		return errors.New("gfxtest: delete of unknown object")
	}
	if o == r.pen || o == r.brush || o == r.font {
		return fmt.Errorf("gfxtest: delete of selected %s", o)
	}
	delete(r.live, o)
	r.deleted++
	return nil
}

// SelectObject implements gfx.DC.
func (r *Recorder) SelectObject(obj gfx.Object) (gfx.Object, error) {
	o, ok := obj.(*Object)
	if !ok || o == nil || (!o.stock && !r.live[o]) {
		return nil, fmt.Errorf("gfxtest: %w: foreign or deleted object", gfx.ErrBind)
	}
	if r.FailSelect != nil && r.FailSelect(obj) {
		return nil, fmt.Errorf("gfxtest: %w: injected failure for %s", gfx.ErrBind, o)
	}
	var slot **Object
	switch o.kind {
	case gfx.KindPen:
		slot = &r.pen
	case gfx.KindBrush:
		slot = &r.brush
	case gfx.KindFont:
		slot = &r.font
	default:
		return nil, fmt.Errorf("gfxtest: %w: bad kind %s", gfx.ErrBind, o.kind)
	}
	old := *slot
	*slot = o
	return old, nil
}

// StockObject implements gfx.DC.
func (r *Recorder) StockObject(s gfx.Stock) gfx.Object {
	return r.stock[s]
}

func (r *Recorder) record(c Call) {
	if r.PanicOn == c.Op {
		panic("gfxtest: injected panic in " + c.Op)
	}
	c.Pen, c.Brush, c.Font = *r.pen, *r.brush, *r.font
	c.TextColor = r.textColor
	r.Calls = append(r.Calls, c)
}

// DrawLine implements gfx.DC.
func (r *Recorder) DrawLine(p0, p1 image.Point) {
	r.record(Call{Op: "line", P0: p0, P1: p1})
}

// Rectangle implements gfx.DC.
func (r *Recorder) Rectangle(rect image.Rectangle) {
	r.record(Call{Op: "rect", Rect: rect})
}

// Ellipse implements gfx.DC.
func (r *Recorder) Ellipse(rect image.Rectangle) {
	r.record(Call{Op: "ellipse", Rect: rect})
}

// TextOut implements gfx.DC.
func (r *Recorder) TextOut(p image.Point, s string) {
	r.record(Call{Op: "text", P0: p, Text: s})
}

// SetTextColor implements gfx.DC.
func (r *Recorder) SetTextColor(c gfx.RGB) gfx.RGB {
	old := r.textColor
	r.textColor = c
	return old
}

// BkColor implements gfx.DC.
func (r *Recorder) BkColor() gfx.RGB { return r.Background }

// Live returns the number of created objects not yet deleted.
func (r *Recorder) Live() int { return len(r.live) }

// Created returns the number of objects created so far.
func (r *Recorder) Created() int { return r.created }

// Deleted returns the number of objects deleted so far.
func (r *Recorder) Deleted() int { return r.deleted }

// Pen returns the selected pen.
func (r *Recorder) Pen() *Object { return r.pen }

// Brush returns the selected brush.
func (r *Recorder) Brush() *Object { return r.brush }

// Font returns the selected font.
func (r *Recorder) Font() *Object { return r.font }

// TextColor returns the current text colour.
func (r *Recorder) TextColor() gfx.RGB { return r.textColor }

// Stock returns the stock object s as *Object.
func (r *Recorder) Stock(s gfx.Stock) *Object { return r.stock[s] }

// Ops returns the recorded calls with the given op name.
func (r *Recorder) Ops(op string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls. Object accounting is kept.
func (r *Recorder) Reset() { r.Calls = nil }
