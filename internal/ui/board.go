package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"LocalSketch/internal/command"
	"LocalSketch/internal/gfx"
)

var gridColor = color.NRGBA{R: 220, G: 220, B: 220, A: 100}

// boardRenderer shows the raster surface, the optional grid and a rubber
// band outline of the shape being dragged. Freehand previews go straight
// into the surface.
type boardRenderer struct {
	board *BoardWidget
	image *canvas.Image
	grid  []*canvas.Line

	line    *canvas.Line
	rect    *canvas.Rectangle
	ellipse *canvas.Circle
}

func newBoardRenderer(b *BoardWidget) *boardRenderer {
	img := canvas.NewImageFromImage(b.surface.Image())
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScalePixels

	r := &boardRenderer{
		board:   b,
		image:   img,
		line:    canvas.NewLine(color.Black),
		rect:    canvas.NewRectangle(color.Transparent),
		ellipse: canvas.NewCircle(color.Transparent),
	}
	r.line.Hide()
	r.rect.Hide()
	r.ellipse.Hide()
	return r
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	objs := []fyne.CanvasObject{r.image}
	for _, l := range r.grid {
		objs = append(objs, l)
	}
	return append(objs, r.line, r.rect, r.ellipse)
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.image.Resize(size)
	r.image.Move(fyne.NewPos(0, 0))
	r.layoutGrid()
	r.layoutPreview()
}

// MinSize is the surface size at the current zoom.
func (r *boardRenderer) MinSize() fyne.Size {
	b := r.board.surface.Bounds()
	s := r.board.scale
	return fyne.NewSize(float32(b.Dx())*s, float32(b.Dy())*s)
}

func (r *boardRenderer) Refresh() {
	r.image.Image = r.board.surface.Image()
	r.layoutGrid()
	r.layoutPreview()
	r.image.Refresh()
	canvas.Refresh(r.board)
}

func (r *boardRenderer) Destroy() {}

// layoutGrid places a line every gridSize surface pixels, strictly inside
// the surface.
func (r *boardRenderer) layoutGrid() {
	b := r.board
	if !b.showGrid {
		r.grid = r.grid[:0]
		return
	}
	bounds := b.surface.Bounds()
	top, bottom := b.toWidget(bounds.Min), b.toWidget(bounds.Max)
	var n int
	next := func() *canvas.Line {
		if n == len(r.grid) {
			l := canvas.NewLine(gridColor)
			l.StrokeWidth = 0.5
			r.grid = append(r.grid, l)
		}
		n++
		return r.grid[n-1]
	}
	for x := bounds.Min.X + gridSize; x < bounds.Max.X; x += gridSize {
		l := next()
		pos := b.toWidget(image.Pt(x, bounds.Min.Y))
		l.Position1 = fyne.NewPos(pos.X, top.Y)
		l.Position2 = fyne.NewPos(pos.X, bottom.Y)
	}
	for y := bounds.Min.Y + gridSize; y < bounds.Max.Y; y += gridSize {
		l := next()
		pos := b.toWidget(image.Pt(bounds.Min.X, y))
		l.Position1 = fyne.NewPos(top.X, pos.Y)
		l.Position2 = fyne.NewPos(bottom.X, pos.Y)
	}
	r.grid = r.grid[:n]
}

func (r *boardRenderer) layoutPreview() {
	r.line.Hide()
	r.rect.Hide()
	r.ellipse.Hide()

	d, ok := r.board.machine.Preview()
	if !ok || d.Kind.Freehand() {
		return
	}
	stroke := previewColor(d.Stroke)
	width := float32(d.PenWidth)
	b := r.board
	switch d.Kind {
	case command.LineSegment:
		r.line.StrokeColor = stroke
		r.line.StrokeWidth = width
		r.line.Position1 = b.toWidget(d.Begin)
		r.line.Position2 = b.toWidget(d.End)
		r.line.Show()
		r.line.Refresh()
	case command.Rectangle:
		place(r.rect, b.toWidget(d.Bounds().Min), b.toWidget(d.Bounds().Max))
		r.rect.StrokeColor = stroke
		r.rect.StrokeWidth = width
		r.rect.Show()
		r.rect.Refresh()
	case command.Circle, command.Ellipse:
		r.ellipse.Position1 = b.toWidget(d.Bounds().Min)
		r.ellipse.Position2 = b.toWidget(d.Bounds().Max)
		r.ellipse.StrokeColor = stroke
		r.ellipse.StrokeWidth = width
		r.ellipse.Show()
		r.ellipse.Refresh()
	}
}

func place(o fyne.CanvasObject, lo, hi fyne.Position) {
	o.Move(lo)
	o.Resize(fyne.NewSize(hi.X-lo.X, hi.Y-lo.Y))
}

// previewColor is c at half opacity.
func previewColor(c gfx.RGB) color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0x80}
}
