package ui

import (
	"bytes"
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalSketch/internal/command"
	"LocalSketch/internal/config"
	"LocalSketch/internal/gesture"
	"LocalSketch/internal/gfx"
	"LocalSketch/internal/raster"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Canvas.Width, cfg.Canvas.Height = 80, 60
	cfg.Pen.Color = gfx.RGB{R: 255}
	cfg.Pen.Width = 2
	return cfg
}

func newTestBoard(t *testing.T) *BoardWidget {
	t.Helper()
	test.NewTempApp(t)
	b := NewBoardWidget(testConfig())
	b.Resize(fyne.NewSize(80, 60))
	return b
}

func press(b *BoardWidget, x, y float32) {
	b.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: desktop.MouseButtonPrimary})
}

func drag(b *BoardWidget, x, y float32) {
	b.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}})
}

func release(b *BoardWidget, x, y float32) {
	b.MouseUp(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: desktop.MouseButtonPrimary})
}

func blank() []uint8 {
	return raster.New(80, 60).Image().Pix
}

func TestBoardDrawsAndUndoes(t *testing.T) {
	b := newTestBoard(t)
	changes := 0
	b.OnChanged = func() { changes++ }

	press(b, 10, 10)
	drag(b, 30, 10)
	drag(b, 30, 40)
	release(b, 30, 40)

	require.Equal(t, 1, b.History().Len())
	assert.Equal(t, 1, changes)
	assert.Equal(t, gfx.RGB{R: 255}, gfx.FromColor(b.Surface().Image().At(20, 10)))

	b.Undo()
	assert.Equal(t, blank(), b.Surface().Image().Pix)
	assert.True(t, b.History().CanRedo())

	b.Redo()
	assert.Equal(t, gfx.RGB{R: 255}, gfx.FromColor(b.Surface().Image().At(20, 10)))
	assert.Equal(t, 3, changes)

	b.Redo()
	assert.Equal(t, "Nothing to redo", b.StatusBar().Text)
}

func TestBoardDragEndFinishesGesture(t *testing.T) {
	b := newTestBoard(t)

	press(b, 5, 5)
	drag(b, 20, 5)
	drag(b, 40, 20)
	b.DragEnd()

	require.Equal(t, 1, b.History().Len())
	assert.Equal(t, gesture.Idle, b.Machine().State())
	pts := b.History().Applied()[0].Points
	assert.Equal(t, image.Pt(40, 20), pts[len(pts)-1])

	release(b, 60, 50)
	b.DragEnd()
	assert.Equal(t, 1, b.History().Len(), "release after drag end adds nothing")
}

func TestBoardDragEndFinishesShape(t *testing.T) {
	b := newTestBoard(t)
	b.SetTool(command.LineSegment)
	r := test.WidgetRenderer(b).(*boardRenderer)

	press(b, 10, 10)
	drag(b, 50, 30)
	b.DragEnd()

	require.Equal(t, 1, b.History().Len())
	d := b.History().Applied()[0]
	assert.Equal(t, image.Pt(10, 10), d.Begin)
	assert.Equal(t, image.Pt(50, 30), d.End)
	assert.False(t, r.line.Visible())
}

func TestBoardRedrawReleasesBuffer(t *testing.T) {
	b := newTestBoard(t)
	press(b, 5, 5)
	release(b, 30, 30)
	press(b, 5, 30)
	release(b, 30, 5)
	want := append([]uint8(nil), b.Surface().Image().Pix...)

	b.Redraw()
	assert.Equal(t, want, b.Surface().Image().Pix)
	assert.Equal(t, 0, b.Surface().Offscreen())
	assert.Equal(t, 0, b.Surface().Live())

	b.Undo()
	assert.Equal(t, 0, b.Surface().Offscreen())
	assert.NotEqual(t, want, b.Surface().Image().Pix)
}

func TestBoardZoomAndGrid(t *testing.T) {
	b := newTestBoard(t)
	r := test.WidgetRenderer(b).(*boardRenderer)
	assert.Equal(t, fyne.NewSize(80, 60), r.MinSize())

	b.ZoomIn()
	assert.InDelta(t, 1.2, b.Scale(), 1e-6)
	assert.InDelta(t, 96, r.MinSize().Width, 1e-3)
	assert.InDelta(t, 72, r.MinSize().Height, 1e-3)

	b.Resize(fyne.NewSize(160, 120))
	b.SetTool(command.LineSegment)
	press(b, 20, 20)
	release(b, 100, 20)
	d := b.History().Applied()[0]
	assert.Equal(t, image.Pt(10, 10), d.Begin, "widget positions map back to surface pixels")
	assert.Equal(t, image.Pt(50, 10), d.End)

	for i := 0; i < 20; i++ {
		b.ZoomIn()
	}
	assert.InDelta(t, 3.0, b.Scale(), 1e-6)
	for i := 0; i < 40; i++ {
		b.ZoomOut()
	}
	assert.InDelta(t, 0.3, b.Scale(), 1e-6)
	b.ResetView()
	assert.InDelta(t, 1.0, b.Scale(), 1e-6)

	assert.Empty(t, r.grid)
	b.ToggleGrid()
	require.True(t, b.GridVisible())
	require.Len(t, r.grid, 2)
	assert.Equal(t, fyne.NewPos(100, 0), r.grid[0].Position1, "x=50 at double size")
	assert.Equal(t, fyne.NewPos(0, 100), r.grid[1].Position1)
	b.ToggleGrid()
	assert.Empty(t, r.grid)
}

func TestBoardShapePreview(t *testing.T) {
	b := newTestBoard(t)
	b.SetTool(command.Rectangle)
	r := test.WidgetRenderer(b).(*boardRenderer)

	press(b, 10, 10)
	drag(b, 40, 30)
	assert.True(t, r.rect.Visible())
	assert.Equal(t, fyne.NewPos(10, 10), r.rect.Position())
	assert.Equal(t, fyne.NewSize(30, 20), r.rect.Size())
	assert.Equal(t, blank(), b.Surface().Image().Pix, "shapes are not drawn before release")

	release(b, 40, 30)
	assert.False(t, r.rect.Visible())
	assert.NotEqual(t, blank(), b.Surface().Image().Pix)
}

func TestBoardCancelRestoresCanvas(t *testing.T) {
	b := newTestBoard(t)

	press(b, 5, 5)
	drag(b, 50, 5)
	require.NotEqual(t, blank(), b.Surface().Image().Pix, "freehand preview is drawn")

	b.Cancel()
	assert.Equal(t, blank(), b.Surface().Image().Pix)
	release(b, 50, 5)
	assert.Equal(t, 0, b.History().Len())
}

func TestBoardText(t *testing.T) {
	b := newTestBoard(t)
	b.SetTool(command.Text)
	var asked image.Point
	b.OnTextRequest = func(at image.Point) { asked = at }

	press(b, 12, 8)
	assert.Equal(t, image.Pt(12, 8), asked)
	b.CommitText("hi")

	require.Equal(t, 1, b.History().Len())
	d := b.History().Applied()[0]
	assert.Equal(t, command.Text, d.Kind)
	assert.Equal(t, "hi", d.Text)
}

func TestBoardSaveLoad(t *testing.T) {
	b := newTestBoard(t)
	b.SetTool(command.LineSegment)
	press(b, 0, 0)
	release(b, 70, 50)
	want := append([]uint8(nil), b.Surface().Image().Pix...)

	var buf bytes.Buffer
	require.NoError(t, b.Save(&buf))

	other := newTestBoard(t)
	require.NoError(t, other.Load(&buf))
	assert.Equal(t, 1, other.History().Len())
	assert.Equal(t, want, other.Surface().Image().Pix)

	assert.Error(t, other.Load(bytes.NewBufferString("{")))
	assert.Equal(t, 1, other.History().Len())
}

func TestBoardClear(t *testing.T) {
	b := newTestBoard(t)
	press(b, 5, 5)
	release(b, 20, 20)
	b.ClearPaths()
	assert.Equal(t, 0, b.History().Len())
	assert.Equal(t, blank(), b.Surface().Image().Pix)
}

func TestToolbarMarksSelectedColor(t *testing.T) {
	b := newTestBoard(t)
	tb := NewToolbar(b)
	require.Len(t, tb.swatches, len(palette))
	assert.True(t, tb.swatches[1].Selected(), "configured red starts selected")

	blue := tb.swatches[3]
	test.Tap(blue)
	assert.Equal(t, blue.Color, b.Machine().Color())
	assert.True(t, blue.Selected())
	assert.False(t, tb.swatches[1].Selected())
}

func TestEditorTracksHistory(t *testing.T) {
	a := test.NewTempApp(t)
	e := NewEditor(a, testConfig())
	e.Board.Resize(fyne.NewSize(80, 60))

	assert.True(t, e.undoItem.Disabled)
	assert.True(t, e.redoItem.Disabled)
	assert.True(t, e.Toolbar.undo.Disabled())

	press(e.Board, 5, 5)
	release(e.Board, 25, 25)
	assert.False(t, e.undoItem.Disabled)
	assert.True(t, e.redoItem.Disabled)
	assert.False(t, e.Toolbar.undo.Disabled())

	e.undoItem.Action()
	assert.True(t, e.undoItem.Disabled)
	assert.False(t, e.redoItem.Disabled)
	assert.False(t, e.Toolbar.redo.Disabled())
}
