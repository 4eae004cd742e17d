// Package gfx describes the drawing-context capability that draw commands
// render into, and the scoped wrappers that bind pens, brushes and fonts to
// a context for exactly as long as a lexical scope lasts.
//
// A typical render looks like:
//
//	pen, err := gfx.NewPen(dc, gfx.PenSolid, width, color)
//	if err != nil {
//		return err
//	}
//	defer pen.Close()
//	if _, err := pen.Select(dc); err != nil {
//		return err
//	}
//	dc.DrawLine(p0, p1)
//
// Close restores whatever was bound before and deletes the pen, on every
// exit path.
package gfx

import (
	"fmt"
	"image"
	"image/color"
	"reflect"
	"strconv"
	"strings"
)

// RGB is an opaque colour.
type RGB struct {
	R, G, B uint8
}

// Common colours.
var (
	Black = RGB{0, 0, 0}
	White = RGB{255, 255, 255}
)

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// String formats the colour as #rrggbb.
func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MarshalText implements encoding.TextMarshaler.
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *RGB) UnmarshalText(b []byte) error {
	v, err := ParseRGB(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseRGB parses "#rrggbb" or "rrggbb".
func ParseRGB(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("gfx: bad colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("gfx: bad colour %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// FromColor converts any color.Color, dropping alpha.
func FromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// Kind identifies the type of a graphics object.
type Kind int

const (
	KindPen Kind = iota + 1
	KindBrush
	KindFont
)

func (k Kind) String() string {
	switch k {
	case KindPen:
		return "pen"
	case KindBrush:
		return "brush"
	case KindFont:
		return "font"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// PenStyle is the line pattern of a pen.
type PenStyle int

const (
	PenSolid PenStyle = iota
	PenDash
	PenDot
	PenNull
)

// Stock names an object every context owns and never deletes.
type Stock int

const (
	BlackPen Stock = iota
	NullPen
	WhiteBrush
	NullBrush
	SystemFont
)

// FontDesc describes a font to create.
type FontDesc struct {
	Face   string `json:"face,omitempty" toml:"face"`
	Height int    `json:"height,omitempty" toml:"height"`
	Bold   bool   `json:"bold,omitempty" toml:"bold"`
	Italic bool   `json:"italic,omitempty" toml:"italic"`
}

// IsZero reports whether d is the zero descriptor, meaning "current font".
func (d FontDesc) IsZero() bool {
	return d == FontDesc{}
}

// Object is a handle to a graphics object owned by a Device.
type Object interface {
	Kind() Kind
}

// Device creates and deletes graphics objects. Creation fails with an error
// wrapping ErrResourceCreation.
type Device interface {
	CreatePen(style PenStyle, width int, c RGB) (Object, error)
	CreateSolidBrush(c RGB) (Object, error)
	CreateFont(desc FontDesc) (Object, error)
	DeleteObject(obj Object) error
}

// DC is an immediate-mode drawing context.
//
// SelectObject binds obj for its kind and returns the object it replaced.
// It fails with an error wrapping ErrBind when obj is nil, deleted or not
// owned by the context. Shapes are stroked with the bound pen and filled
// with the bound brush; text uses the bound font and the text colour.
type DC interface {
	Device

	SelectObject(obj Object) (Object, error)
	StockObject(s Stock) Object

	DrawLine(p0, p1 image.Point)
	Rectangle(r image.Rectangle)
	Ellipse(r image.Rectangle)
	TextOut(p image.Point, s string)

	SetTextColor(c RGB) RGB
	BkColor() RGB
}

// Compatible is a context that can create offscreen contexts of its own
// kind and copy them onto itself. Offscreen contexts belong to the context
// that created them and are released with DeleteDC.
type Compatible interface {
	DC

	CreateCompatibleDC(w, h int) (DC, error)
	DeleteDC(dc DC) error
	BitBlt(dst image.Point, src DC) error
}

// IsNil reports whether dc is absent, including a typed nil pointer.
func IsNil(dc DC) bool {
	if dc == nil {
		return true
	}
	v := reflect.ValueOf(dc)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return v.IsNil()
	}
	return false
}
