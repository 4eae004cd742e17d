package ui

import (
	"fmt"
	"image"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"LocalSketch/internal/command"
	"LocalSketch/internal/config"
	"LocalSketch/internal/gfx"
	"LocalSketch/internal/gesture"
	"LocalSketch/internal/history"
	"LocalSketch/internal/logging"
	"LocalSketch/internal/raster"
	"LocalSketch/internal/store"
)

// BoardWidget is the drawing canvas. Pointer input drives a gesture
// machine whose commands render into a raster surface shown as an image.
// All methods must be called on the fyne main goroutine.
type BoardWidget struct {
	widget.BaseWidget

	surface *raster.Surface
	hist    *history.History
	machine *gesture.Machine

	drawing   bool
	last      image.Point
	statusBar *widget.Label

	scale    float32
	showGrid bool

	// OnChanged is called after the history changed.
	OnChanged func()
	// OnTextRequest is called when the Text tool placed its anchor. The
	// front end asks for the text and calls CommitText or CancelText.
	OnTextRequest func(at image.Point)
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

func NewBoardWidget(cfg config.Config) *BoardWidget {
	opts := []raster.Option{raster.WithBackground(cfg.Canvas.Background)}
	if cfg.Canvas.ObjectLimit > 0 {
		opts = append(opts, raster.WithObjectLimit(cfg.Canvas.ObjectLimit))
	}
	hist := history.New()
	b := &BoardWidget{
		surface: raster.New(cfg.Canvas.Width, cfg.Canvas.Height, opts...),
		hist:    hist,
		machine: gesture.New(hist,
			gesture.WithTool(cfg.Pen.Tool),
			gesture.WithColor(cfg.Pen.Color),
			gesture.WithPenWidth(cfg.Pen.Width),
			gesture.WithFont(cfg.Font),
		),
		statusBar: widget.NewLabel("Ready"),
		scale:     1,
	}
	b.ExtendBaseWidget(b)
	return b
}

func (b *BoardWidget) Machine() *gesture.Machine { return b.machine }
func (b *BoardWidget) History() *history.History { return b.hist }
func (b *BoardWidget) Surface() *raster.Surface  { return b.surface }
func (b *BoardWidget) StatusBar() *widget.Label  { return b.statusBar }

func (b *BoardWidget) SetStatus(text string) {
	b.statusBar.SetText(text)
}

func (b *BoardWidget) SetTool(k command.Kind) {
	if err := b.machine.SetTool(k); err != nil {
		logging.Logger().Warn("tool rejected", "err", err)
		return
	}
	b.drawing = false
	b.Refresh()
}

func (b *BoardWidget) SetColor(c gfx.RGB) { b.machine.SetColor(c) }

func (b *BoardWidget) SetStroke(w int) {
	if err := b.machine.SetPenWidth(w); err != nil {
		logging.Logger().Warn("pen width rejected", "err", err)
	}
}

// toCanvas maps a widget position to a surface pixel.
func (b *BoardWidget) toCanvas(pos fyne.Position) image.Point {
	r := b.surface.Bounds()
	size := b.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return image.Pt(int(pos.X), int(pos.Y))
	}
	return image.Pt(
		int(pos.X*float32(r.Dx())/size.Width),
		int(pos.Y*float32(r.Dy())/size.Height),
	)
}

// toWidget maps a surface pixel to a widget position.
func (b *BoardWidget) toWidget(p image.Point) fyne.Position {
	r := b.surface.Bounds()
	size := b.Size()
	if size.Width <= 0 || size.Height <= 0 || r.Empty() {
		return fyne.NewPos(float32(p.X), float32(p.Y))
	}
	return fyne.NewPos(
		float32(p.X)*size.Width/float32(r.Dx()),
		float32(p.Y)*size.Height/float32(r.Dy()),
	)
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	p := b.toCanvas(e.Position)
	b.machine.PointerDown(p)
	b.last = p
	if at, ok := b.machine.PendingText(); ok {
		if b.OnTextRequest != nil {
			b.OnTextRequest(at)
		} else {
			b.machine.CancelText()
		}
		return
	}
	b.drawing = true
	b.Refresh()
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if !b.drawing {
		return
	}
	b.last = b.toCanvas(e.Position)
	b.machine.PointerMove(b.surface, b.last)
	b.Refresh()
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || !b.drawing {
		return
	}
	b.finish(b.toCanvas(e.Position))
}

// DragEnd finishes the gesture at the last dragged point. A release over
// another widget or outside the window delivers no MouseUp.
func (b *BoardWidget) DragEnd() {
	if !b.drawing {
		return
	}
	b.finish(b.last)
}

func (b *BoardWidget) finish(p image.Point) {
	b.drawing = false
	cmd, ok := b.machine.PointerUp(b.surface, p)
	b.Refresh()
	if ok {
		b.SetStatus(fmt.Sprintf("Added %s", cmd.Kind()))
		b.changed()
	}
}

// Cancel abandons the gesture in progress.
func (b *BoardWidget) Cancel() {
	if !b.drawing && b.machine.State() == gesture.Idle {
		return
	}
	b.drawing = false
	b.machine.Cancel()
	// Freehand previews were drawn into the surface.
	b.Redraw()
	logging.Logger().Debug("gesture cancelled")
}

func (b *BoardWidget) CommitText(text string) {
	if _, ok := b.machine.CommitText(b.surface, text); ok {
		b.Refresh()
		b.SetStatus("Added text")
		b.changed()
	}
}

func (b *BoardWidget) CancelText() { b.machine.CancelText() }

func (b *BoardWidget) Undo() {
	if !b.hist.Undo(b.surface) {
		b.SetStatus("Nothing to undo")
		return
	}
	// Undo paints over neighbours and cannot bring back erased pixels.
	b.Redraw()
	b.SetStatus("Undo")
	b.changed()
}

func (b *BoardWidget) Redo() {
	if !b.hist.Redo(b.surface) {
		b.SetStatus("Nothing to redo")
		return
	}
	b.Refresh()
	b.SetStatus("Redo")
	b.changed()
}

// ClearPaths discards the whole drawing.
func (b *BoardWidget) ClearPaths() {
	b.machine.Cancel()
	b.drawing = false
	b.hist.Clear()
	b.Redraw()
	b.SetStatus("Cleared")
	b.changed()
}

// Redraw repaints the surface from the history. The history is replayed
// into a memory context which then replaces the board in one copy.
func (b *BoardWidget) Redraw() {
	defer b.Refresh()
	r := b.surface.Bounds()
	buf, err := gfx.NewOffscreen(b.surface, r.Dx(), r.Dy())
	if err != nil {
		logging.Logger().Warn("redraw in place", "err", err)
		b.surface.Clear()
		b.hist.Replay(b.surface)
		return
	}
	b.hist.Replay(buf.DC())
	if err := buf.CopyTo(r.Min); err != nil {
		logging.Logger().Error("redraw copy failed", "err", err)
	}
	if err := buf.Close(); err != nil {
		logging.Logger().Warn("redraw buffer leaked", "err", err)
	}
}

const (
	minScale = 0.3
	maxScale = 3.0
	zoomStep = 1.2
	// gridSize is the grid spacing in surface pixels.
	gridSize = 50
)

// Scale returns the current zoom factor.
func (b *BoardWidget) Scale() float32 { return b.scale }

func (b *BoardWidget) ZoomIn() {
	b.setScale(b.scale * zoomStep)
}

func (b *BoardWidget) ZoomOut() {
	b.setScale(b.scale / zoomStep)
}

// ResetView returns to 1:1 zoom.
func (b *BoardWidget) ResetView() {
	b.setScale(1)
}

func (b *BoardWidget) setScale(v float32) {
	b.scale = min(max(v, minScale), maxScale)
	b.Refresh()
	b.SetStatus(fmt.Sprintf("Zoom %d%%", int(b.scale*100+0.5)))
}

// GridVisible reports whether the grid overlay is shown. The grid is never
// part of the drawing.
func (b *BoardWidget) GridVisible() bool { return b.showGrid }

func (b *BoardWidget) ToggleGrid() {
	b.showGrid = !b.showGrid
	b.Refresh()
}

func (b *BoardWidget) changed() {
	if b.OnChanged != nil {
		b.OnChanged()
	}
}

// Save writes the drawing to w.
func (b *BoardWidget) Save(w io.Writer) error {
	return store.Save(w, b.hist)
}

// Load replaces the drawing with the one read from r.
func (b *BoardWidget) Load(r io.Reader) error {
	data, err := store.Load(r)
	if err != nil {
		return err
	}
	b.machine.Cancel()
	b.drawing = false
	if err := store.Restore(b.hist, data); err != nil {
		return err
	}
	b.Redraw()
	b.changed()
	return nil
}

func (b *BoardWidget) SaveToFile(writer fyne.URIWriteCloser) {
	defer func() {
		if err := writer.Close(); err != nil {
			logging.Logger().Error("close writer", "uri", writer.URI(), "err", err)
		}
	}()
	if err := b.Save(writer); err != nil {
		logging.Logger().Error("save failed", "uri", writer.URI(), "err", err)
		b.SetStatus("Error saving file")
		return
	}
	b.SetStatus(fmt.Sprintf("Saved %d commands", b.hist.Cursor()))
	logging.Logger().Info("saved", "uri", writer.URI())
}

func (b *BoardWidget) LoadFromFile(reader fyne.URIReadCloser) {
	defer func() {
		if err := reader.Close(); err != nil {
			logging.Logger().Error("close reader", "uri", reader.URI(), "err", err)
		}
	}()
	if err := b.Load(reader); err != nil {
		logging.Logger().Error("load failed", "uri", reader.URI(), "err", err)
		b.SetStatus("Error reading file - invalid format")
		return
	}
	b.SetStatus(fmt.Sprintf("Loaded %d commands", b.hist.Len()))
	logging.Logger().Info("loaded", "uri", reader.URI())
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return newBoardRenderer(b)
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent)    {}
func (b *BoardWidget) MouseOut()                      {}
func (b *BoardWidget) MouseMoved(*desktop.MouseEvent) {}
