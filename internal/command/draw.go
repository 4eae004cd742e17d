package command

import (
	"image"

	"LocalSketch/internal/gfx"
)

// withPen binds a solid pen for the duration of fn.
func withPen(dc gfx.DC, width int, c gfx.RGB, fn func() error) error {
	pen, err := gfx.NewPen(dc, gfx.PenSolid, width, c)
	if err != nil {
		return err
	}
	defer pen.Close()
	if _, err := pen.Select(dc); err != nil {
		return err
	}
	return fn()
}

// withBrush binds a solid brush for the duration of fn.
func withBrush(dc gfx.DC, c gfx.RGB, fn func() error) error {
	brush, err := gfx.NewBrush(dc, c)
	if err != nil {
		return err
	}
	defer brush.Close()
	if _, err := brush.Select(dc); err != nil {
		return err
	}
	return fn()
}

// withNullBrush binds the stock null brush for the duration of fn.
func withNullBrush(dc gfx.DC, fn func() error) error {
	sel, err := gfx.Select(dc, dc.StockObject(gfx.NullBrush))
	if err != nil {
		return err
	}
	defer sel.Restore()
	return fn()
}

// withFont binds a font built from desc for the duration of fn. The zero
// descriptor keeps the context's current font.
func withFont(dc gfx.DC, desc gfx.FontDesc, fn func() error) error {
	if desc.IsZero() {
		return fn()
	}
	font, err := gfx.NewFont(dc, desc)
	if err != nil {
		return err
	}
	defer font.Close()
	if _, err := font.Select(dc); err != nil {
		return err
	}
	return fn()
}

// Polyline draws the consecutive segments through pts with the bound pen.
// Fewer than two points draw nothing.
func Polyline(dc gfx.DC, pts []image.Point) {
	for i := 1; i < len(pts); i++ {
		dc.DrawLine(pts[i-1], pts[i])
	}
}

// StrokeSegment draws one segment with a scoped pen of the given width and
// colour. The gesture preview uses it.
func StrokeSegment(dc gfx.DC, p0, p1 image.Point, width int, c gfx.RGB) error {
	if gfx.IsNil(dc) {
		return gfx.ErrInvalidContext
	}
	return withPen(dc, width, c, func() error {
		dc.DrawLine(p0, p1)
		return nil
	})
}
