package command

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalSketch/internal/gfx"
	"LocalSketch/internal/raster"
)

func TestUndoRestoresBlankCanvas(t *testing.T) {
	for _, width := range []int{1, 3, 6} {
		for _, k := range Kinds() {
			if k == Eraser {
				continue
			}
			d := sample(k)
			d.PenWidth = width
			t.Run(k.String(), func(t *testing.T) {
				s := raster.New(64, 48, raster.WithBackground(bg))
				blank := s.Snapshot()

				c := MustNew(d)
				c.Execute(s)
				require.NotEqual(t, blank.Pix, s.Image().Pix, "execute drew nothing")

				c.Undo(s)
				assert.Equal(t, blank.Pix, s.Image().Pix)
				assert.Equal(t, 0, s.Live())
			})
		}
	}
}

func TestEraserPaintsBackground(t *testing.T) {
	s := raster.New(64, 48, raster.WithBackground(bg))
	line := MustNew(DrawData{Kind: LineSegment, Begin: image.Pt(0, 10), End: image.Pt(63, 10), PenWidth: 3, Stroke: red})
	line.Execute(s)

	eraser := MustNew(DrawData{
		Kind:     Eraser,
		Points:   []image.Point{{20, 0}, {20, 47}},
		PenWidth: 5,
	})
	eraser.Execute(s)
	assert.Equal(t, bg, gfx.FromColor(s.Image().At(20, 10)))
	r, _, _, _ := s.Image().At(5, 10).RGBA()
	assert.Equal(t, uint32(0xffff), r)

	// The erased pixels stay erased until the canvas is rebuilt.
	eraser.Undo(s)
	assert.Equal(t, bg, gfx.FromColor(s.Image().At(20, 10)))
}

func TestCloneRendersIdentically(t *testing.T) {
	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			c := MustNew(sample(k))
			a := raster.New(64, 48, raster.WithBackground(bg))
			b := raster.New(64, 48, raster.WithBackground(bg))
			if k == Eraser {
				MustNew(DrawData{Kind: Rectangle, End: image.Pt(40, 30), PenWidth: 4, Stroke: blue}).Execute(a)
				MustNew(DrawData{Kind: Rectangle, End: image.Pt(40, 30), PenWidth: 4, Stroke: blue}).Execute(b)
			}
			c.Execute(a)
			c.Clone().Execute(b)
			assert.Equal(t, a.Image().Pix, b.Image().Pix)
		})
	}
}
