// Package raster implements gfx.DC on an in-memory RGBA image. It is the
// canvas the board shows and the surface tests compare pixel by pixel.
//
// Rendering is aliased: path coverage computed by golang.org/x/image/vector
// is thresholded to on or off, so drawing the same geometry again in the
// background colour removes it exactly.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"LocalSketch/internal/gfx"
)

type object struct {
	kind  gfx.Kind
	owner *Surface
	stock bool

	style gfx.PenStyle
	width int
	color gfx.RGB
	null  bool
	desc  gfx.FontDesc
	face  font.Face
}

func (o *object) Kind() gfx.Kind { return o.kind }

// Option configures a Surface.
type Option func(*Surface)

// WithBackground sets the background colour. The default is white.
func WithBackground(c gfx.RGB) Option {
	return func(s *Surface) { s.bg = c }
}

// WithObjectLimit caps the number of live pens, brushes and fonts. Creating
// one more fails with gfx.ErrResourceCreation. Zero means no limit.
func WithObjectLimit(n int) Option {
	return func(s *Surface) { s.limit = n }
}

// Surface is a drawing context backed by an *image.RGBA. It is not safe for
// concurrent use.
type Surface struct {
	img       *image.RGBA
	bg        gfx.RGB
	textColor gfx.RGB
	limit     int

	stock map[gfx.Stock]*object
	live  map[*object]struct{}

	pen   *object
	brush *object
	font  *object

	parent    *Surface
	offscreen map[*Surface]struct{}
}

var _ gfx.Compatible = (*Surface)(nil)

// New returns a w×h surface cleared to the background colour.
func New(w, h int, opts ...Option) *Surface {
	s := &Surface{
		img:  image.NewRGBA(image.Rect(0, 0, w, h)),
		bg:        gfx.White,
		live:      make(map[*object]struct{}),
		offscreen: make(map[*Surface]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.stock = map[gfx.Stock]*object{
		gfx.BlackPen:   {kind: gfx.KindPen, owner: s, stock: true, width: 1, color: gfx.Black},
		gfx.NullPen:    {kind: gfx.KindPen, owner: s, stock: true, style: gfx.PenNull},
		gfx.WhiteBrush: {kind: gfx.KindBrush, owner: s, stock: true, color: gfx.White},
		gfx.NullBrush:  {kind: gfx.KindBrush, owner: s, stock: true, null: true},
		gfx.SystemFont: {kind: gfx.KindFont, owner: s, stock: true, face: basicfont.Face7x13},
	}
	s.pen = s.stock[gfx.BlackPen]
	s.brush = s.stock[gfx.WhiteBrush]
	s.font = s.stock[gfx.SystemFont]
	s.Clear()
	return s
}

// Image returns the backing image. It is drawn into in place.
func (s *Surface) Image() *image.RGBA { return s.img }

// Bounds returns the surface bounds.
func (s *Surface) Bounds() image.Rectangle { return s.img.Rect }

// Snapshot returns a copy of the current pixels.
func (s *Surface) Snapshot() *image.RGBA {
	out := image.NewRGBA(s.img.Rect)
	copy(out.Pix, s.img.Pix)
	return out
}

// Clear fills the surface with the background colour.
func (s *Surface) Clear() {
	draw.Draw(s.img, s.img.Rect, image.NewUniform(s.bg), image.Point{}, draw.Src)
}

// SetBackground changes the background colour. Existing pixels are kept.
func (s *Surface) SetBackground(c gfx.RGB) { s.bg = c }

// Resize replaces the backing image with a cleared w×h one.
func (s *Surface) Resize(w, h int) {
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
	s.Clear()
}

// Live returns the number of created objects that have not been deleted.
func (s *Surface) Live() int { return len(s.live) }

func (s *Surface) alloc(o *object) (gfx.Object, error) {
	if s.limit > 0 && len(s.live) >= s.limit {
		return nil, fmt.Errorf("raster: %w: object limit %d reached", gfx.ErrResourceCreation, s.limit)
	}
	o.owner = s
	s.live[o] = struct{}{}
	return o, nil
}

// CreatePen implements gfx.Device. Dash and dot styles render solid.
func (s *Surface) CreatePen(style gfx.PenStyle, width int, c gfx.RGB) (gfx.Object, error) {
	if width < 0 {
		return nil, fmt.Errorf("raster: %w: negative pen width %d", gfx.ErrResourceCreation, width)
	}
	return s.alloc(&object{kind: gfx.KindPen, style: style, width: width, color: c})
}

// CreateSolidBrush implements gfx.Device.
func (s *Surface) CreateSolidBrush(c gfx.RGB) (gfx.Object, error) {
	return s.alloc(&object{kind: gfx.KindBrush, color: c})
}

// CreateFont implements gfx.Device. Every descriptor renders with the
// 7×13 bitmap face.
func (s *Surface) CreateFont(desc gfx.FontDesc) (gfx.Object, error) {
	if desc.Height < 0 {
		return nil, fmt.Errorf("raster: %w: negative font height %d", gfx.ErrResourceCreation, desc.Height)
	}
	return s.alloc(&object{kind: gfx.KindFont, desc: desc, face: basicfont.Face7x13})
}

// DeleteObject implements gfx.Device.
func (s *Surface) DeleteObject(obj gfx.Object) error {
	o, ok := obj.(*object)
	if !ok || o == nil || o.owner != s {
		return errors.New("raster: delete of foreign object")
	}
	if o.stock {
		return errors.New("raster: delete of stock object")
	}
	if _, ok := s.live[o]; !ok {
		return errors.New("raster: object already deleted")
	}
	if o == s.pen || o == s.brush || o == s.font {
		return fmt.Errorf("raster: delete of selected %s", o.kind)
	}
	delete(s.live, o)
	return nil
}

// SelectObject implements gfx.DC.
func (s *Surface) SelectObject(obj gfx.Object) (gfx.Object, error) {
	o, ok := obj.(*object)
	if !ok || o == nil || o.owner != s {
		return nil, fmt.Errorf("raster: %w: foreign object", gfx.ErrBind)
	}
	if _, live := s.live[o]; !o.stock && !live {
		return nil, fmt.Errorf("raster: %w: deleted %s", gfx.ErrBind, o.kind)
	}
	var old *object
	switch o.kind {
	case gfx.KindPen:
		old, s.pen = s.pen, o
	case gfx.KindBrush:
		old, s.brush = s.brush, o
	case gfx.KindFont:
		old, s.font = s.font, o
	default:
		return nil, fmt.Errorf("raster: %w: unknown kind %s", gfx.ErrBind, o.kind)
	}
	return old, nil
}

// StockObject implements gfx.DC.
func (s *Surface) StockObject(st gfx.Stock) gfx.Object {
	o, ok := s.stock[st]
	if !ok {
		return nil
	}
	return o
}

// SetTextColor implements gfx.DC.
func (s *Surface) SetTextColor(c gfx.RGB) gfx.RGB {
	old := s.textColor
	s.textColor = c
	return old
}

// BkColor implements gfx.DC.
func (s *Surface) BkColor() gfx.RGB { return s.bg }

// CreateCompatibleDC implements gfx.Compatible. The new surface has the
// same background colour and object limit and starts cleared.
func (s *Surface) CreateCompatibleDC(w, h int) (gfx.DC, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("raster: %w: surface size %dx%d", gfx.ErrResourceCreation, w, h)
	}
	c := New(w, h, WithBackground(s.bg), WithObjectLimit(s.limit))
	c.parent = s
	s.offscreen[c] = struct{}{}
	return c, nil
}

// DeleteDC implements gfx.Compatible. A context that still owns live
// objects cannot be deleted.
func (s *Surface) DeleteDC(dc gfx.DC) error {
	c, ok := dc.(*Surface)
	if !ok || c == nil || c.parent != s {
		return errors.New("raster: delete of foreign context")
	}
	if _, ok := s.offscreen[c]; !ok {
		return errors.New("raster: context already deleted")
	}
	if n := c.Live(); n > 0 {
		return fmt.Errorf("raster: context still owns %d objects", n)
	}
	delete(s.offscreen, c)
	return nil
}

// BitBlt implements gfx.Compatible. Pixels falling outside s are dropped.
func (s *Surface) BitBlt(dst image.Point, src gfx.DC) error {
	c, ok := src.(*Surface)
	if !ok || c == nil {
		return fmt.Errorf("raster: %w: blit from %T", gfx.ErrInvalidContext, src)
	}
	draw.Draw(s.img, c.img.Rect.Sub(c.img.Rect.Min).Add(dst), c.img, c.img.Rect.Min, draw.Src)
	return nil
}

// Offscreen returns the number of compatible contexts not yet deleted.
func (s *Surface) Offscreen() int { return len(s.offscreen) }

func rgba(c gfx.RGB) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}
