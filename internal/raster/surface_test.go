package raster

import (
	"image"
	"image/color"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalSketch/internal/gfx"
)

var red = gfx.RGB{R: 255}

func at(s *Surface, x, y int) color.RGBA {
	return s.Image().RGBAAt(x, y)
}

func countNot(s *Surface, c gfx.RGB) int {
	n := 0
	want := rgba(c)
	b := s.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if at(s, x, y) != want {
				n++
			}
		}
	}
	return n
}

func selectPen(t *testing.T, s *Surface, width int, c gfx.RGB) *gfx.Pen {
	t.Helper()
	pen, err := gfx.NewPen(s, gfx.PenSolid, width, c)
	require.NoError(t, err)
	_, err = pen.Select(s)
	require.NoError(t, err)
	return pen
}

func TestNewSurfaceIsBackground(t *testing.T) {
	s := New(8, 6, WithBackground(gfx.RGB{B: 10}))
	assert.Equal(t, image.Rect(0, 0, 8, 6), s.Bounds())
	assert.Equal(t, 0, countNot(s, gfx.RGB{B: 10}))
	assert.Equal(t, gfx.RGB{B: 10}, s.BkColor())
}

func TestDrawLineHorizontal(t *testing.T) {
	s := New(10, 10)
	pen := selectPen(t, s, 1, red)
	defer pen.Close()

	s.DrawLine(image.Pt(1, 4), image.Pt(7, 4))
	for x := 1; x <= 7; x++ {
		assert.Equal(t, rgba(red), at(s, x, 4), "x=%d", x)
	}
	assert.Equal(t, 7, countNot(s, gfx.White))
}

func TestDrawLineDiagonalIsConnected(t *testing.T) {
	s := New(12, 12)
	pen := selectPen(t, s, 1, gfx.Black)
	defer pen.Close()

	s.DrawLine(image.Pt(0, 0), image.Pt(9, 9))
	for i := 0; i <= 9; i++ {
		assert.Equal(t, rgba(gfx.Black), at(s, i, i), "i=%d", i)
	}
}

func TestDrawLineWide(t *testing.T) {
	s := New(20, 20)
	pen := selectPen(t, s, 5, red)
	defer pen.Close()

	s.DrawLine(image.Pt(5, 10), image.Pt(15, 10))
	for y := 8; y <= 12; y++ {
		assert.Equal(t, rgba(red), at(s, 10, y), "y=%d", y)
	}
	assert.Equal(t, rgba(gfx.White), at(s, 10, 14))
}

func TestNullPenDrawsNothing(t *testing.T) {
	s := New(10, 10)
	sel, err := gfx.Select(s, s.StockObject(gfx.NullPen))
	require.NoError(t, err)
	defer sel.Restore()

	s.DrawLine(image.Pt(0, 0), image.Pt(9, 9))
	assert.Equal(t, 0, countNot(s, gfx.White))
}

func TestRectangleOutlineAndFill(t *testing.T) {
	s := New(20, 20)
	pen := selectPen(t, s, 1, red)
	defer pen.Close()

	nullBrush, err := gfx.Select(s, s.StockObject(gfx.NullBrush))
	require.NoError(t, err)
	s.Rectangle(image.Rect(12, 12, 2, 2))
	nullBrush.Restore()

	assert.Equal(t, rgba(red), at(s, 2, 2))
	assert.Equal(t, rgba(red), at(s, 11, 11))
	assert.Equal(t, rgba(gfx.White), at(s, 6, 6), "null brush leaves the inside alone")
	assert.Equal(t, rgba(gfx.White), at(s, 12, 12))

	brush, err := gfx.NewBrush(s, gfx.RGB{G: 200})
	require.NoError(t, err)
	defer brush.Close()
	_, err = brush.Select(s)
	require.NoError(t, err)
	s.Rectangle(image.Rect(2, 2, 12, 12))
	assert.Equal(t, rgba(gfx.RGB{G: 200}), at(s, 6, 6))
}

func TestEllipseStaysInsideBox(t *testing.T) {
	s := New(40, 40)
	pen := selectPen(t, s, 1, gfx.Black)
	defer pen.Close()

	s.Ellipse(image.Rect(10, 10, 30, 20))
	assert.Equal(t, rgba(gfx.Black), at(s, 20, 10), "top")
	assert.Equal(t, rgba(gfx.Black), at(s, 10, 15), "left")
	assert.Equal(t, rgba(gfx.White), at(s, 20, 15), "centre filled by white stock brush")
	assert.Equal(t, rgba(gfx.White), at(s, 10, 10), "corner outside the ellipse")
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if !image.Pt(x, y).In(image.Rect(10, 10, 30, 20)) {
				require.Equal(t, rgba(gfx.White), at(s, x, y), "(%d,%d) outside the box", x, y)
			}
		}
	}
}

func TestTextOut(t *testing.T) {
	s := New(60, 30)
	old := s.SetTextColor(red)
	assert.Equal(t, gfx.Black, old)

	s.TextOut(image.Pt(2, 2), "Hi")
	n := countNot(s, gfx.White)
	assert.Positive(t, n)
	// 7x13 glyphs: nothing below the second text row.
	for x := 0; x < 60; x++ {
		assert.Equal(t, rgba(gfx.White), at(s, x, 16))
	}

	s.SetTextColor(gfx.White)
	s.TextOut(image.Pt(2, 2), "Hi")
	assert.Equal(t, 0, countNot(s, gfx.White))
}

func TestObjectLimit(t *testing.T) {
	s := New(4, 4, WithObjectLimit(2))
	a, err := gfx.NewPen(s, gfx.PenSolid, 1, red)
	require.NoError(t, err)
	b, err := gfx.NewBrush(s, red)
	require.NoError(t, err)

	_, err = gfx.NewFont(s, gfx.FontDesc{Height: 12})
	require.ErrorIs(t, err, gfx.ErrResourceCreation)

	require.NoError(t, a.Close())
	require.NoError(t, b.Close())
	assert.Equal(t, 0, s.Live())
}

func TestDeleteAndSelectRules(t *testing.T) {
	s := New(4, 4)
	other := New(4, 4)

	require.Error(t, s.DeleteObject(s.StockObject(gfx.BlackPen)))

	obj, err := s.CreatePen(gfx.PenSolid, 1, red)
	require.NoError(t, err)
	_, err = other.SelectObject(obj)
	require.ErrorIs(t, err, gfx.ErrBind)

	old, err := s.SelectObject(obj)
	require.NoError(t, err)
	require.Error(t, s.DeleteObject(obj), "selected objects cannot be deleted")

	_, err = s.SelectObject(old)
	require.NoError(t, err)
	require.NoError(t, s.DeleteObject(obj))
	require.Error(t, s.DeleteObject(obj))

	_, err = s.SelectObject(obj)
	require.ErrorIs(t, err, gfx.ErrBind)

	_, err = s.CreatePen(gfx.PenSolid, -1, red)
	require.ErrorIs(t, err, gfx.ErrResourceCreation)
}

func TestSnapshotAndResize(t *testing.T) {
	s := New(5, 5)
	snap := s.Snapshot()
	pen := selectPen(t, s, 1, red)
	s.DrawLine(image.Pt(0, 0), image.Pt(4, 0))
	require.NoError(t, pen.Close())

	assert.NotEqual(t, snap.Pix, s.Image().Pix)
	s.Clear()
	assert.Equal(t, snap.Pix, s.Image().Pix)

	s.Resize(7, 3)
	assert.Equal(t, image.Rect(0, 0, 7, 3), s.Bounds())
	assert.Equal(t, 0, countNot(s, gfx.White))
}

func allocated(fn func()) uint64 {
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	fn()
	runtime.ReadMemStats(&after)
	return after.TotalAlloc - before.TotalAlloc
}

func TestHugeCoordinatesAreClipped(t *testing.T) {
	s := New(64, 48)
	pen := selectPen(t, s, 1, red)
	defer pen.Close()

	n := allocated(func() {
		s.DrawLine(image.Pt(0, 0), image.Pt(20000, 20000))
		s.DrawLine(image.Pt(-60000, 40), image.Pt(60000, 40))
		s.DrawLine(image.Pt(-50000, -50000), image.Pt(-40000, 60000))
	})
	assert.Less(t, n, uint64(4<<20), "allocation follows the surface, not the shape")

	for i := 0; i < 40; i++ {
		assert.Equal(t, rgba(red), at(s, i, i), "diagonal i=%d", i)
	}
	for x := 0; x < 64; x++ {
		assert.Equal(t, rgba(red), at(s, x, 40), "horizontal x=%d", x)
	}
	assert.Equal(t, rgba(gfx.White), at(s, 10, 30))
	assert.Equal(t, rgba(gfx.White), at(s, 50, 5))
}

func TestHugeEllipseFillsVisiblePart(t *testing.T) {
	s := New(64, 48)
	brush, err := gfx.NewBrush(s, red)
	require.NoError(t, err)
	defer brush.Close()
	_, err = brush.Select(s)
	require.NoError(t, err)

	n := allocated(func() {
		s.Ellipse(image.Rect(-50000, -50000, 50000, 50000))
	})
	assert.Less(t, n, uint64(4<<20))
	assert.Equal(t, 0, countNot(s, red), "outline lies far outside, fill covers everything")

	s.Clear()
	s.Ellipse(image.Rect(100, 100, 90000, 90000))
	assert.Equal(t, 0, countNot(s, gfx.White), "off-surface shapes paint nothing")
}

func TestCompatibleContexts(t *testing.T) {
	s := New(6, 6, WithBackground(gfx.RGB{G: 1}), WithObjectLimit(3))
	dc, err := s.CreateCompatibleDC(4, 2)
	require.NoError(t, err)
	c := dc.(*Surface)
	assert.Equal(t, image.Rect(0, 0, 4, 2), c.Bounds())
	assert.Equal(t, gfx.RGB{G: 1}, c.BkColor())
	assert.Equal(t, 1, s.Offscreen())

	_, err = s.CreateCompatibleDC(0, 2)
	require.ErrorIs(t, err, gfx.ErrResourceCreation)

	pen := selectPen(t, c, 1, red)
	c.DrawLine(image.Pt(0, 0), image.Pt(3, 0))
	require.Error(t, s.DeleteDC(c), "context with a live pen")
	require.NoError(t, pen.Close())

	require.NoError(t, s.BitBlt(image.Pt(4, 5), c))
	assert.Equal(t, rgba(red), at(s, 4, 5))
	assert.Equal(t, rgba(red), at(s, 5, 5))
	assert.Equal(t, rgba(gfx.RGB{G: 1}), at(s, 3, 5))

	require.Error(t, New(2, 2).DeleteDC(c), "foreign context")
	require.NoError(t, s.DeleteDC(c))
	require.Error(t, s.DeleteDC(c))
	assert.Equal(t, 0, s.Offscreen())

	require.ErrorIs(t, s.BitBlt(image.Point{}, nil), gfx.ErrInvalidContext)
}
