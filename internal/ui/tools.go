package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"LocalSketch/internal/command"
	"LocalSketch/internal/gfx"
)

var palette = []gfx.RGB{
	gfx.Black,
	{R: 255},         // Red
	{G: 160},         // Green
	{B: 255},         // Blue
	{R: 255, G: 200}, // Yellow
	gfx.White,
}

// colorSwatch is one palette entry. The selected swatch gets a thick
// outline in the theme's primary colour.
type colorSwatch struct {
	widget.BaseWidget
	Color    gfx.RGB
	OnTapped func(gfx.RGB)

	selected bool
}

func newColorSwatch(c gfx.RGB, tapped func(gfx.RGB)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) SetSelected(on bool) {
	if s.selected == on {
		return
	}
	s.selected = on
	s.Refresh()
}

func (s *colorSwatch) Selected() bool { return s.selected }

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	fill := canvas.NewRectangle(s.Color)
	fill.SetMinSize(fyne.NewSize(32, 32))
	border := canvas.NewRectangle(color.Transparent)
	r := &swatchRenderer{swatch: s, fill: fill, border: border}
	r.Refresh()
	return r
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

type swatchRenderer struct {
	swatch *colorSwatch
	fill   *canvas.Rectangle
	border *canvas.Rectangle
}

func (r *swatchRenderer) Layout(size fyne.Size) {
	for _, o := range r.Objects() {
		o.Move(fyne.NewPos(0, 0))
		o.Resize(size)
	}
}

func (r *swatchRenderer) MinSize() fyne.Size { return r.fill.MinSize() }

func (r *swatchRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.fill, r.border}
}

func (r *swatchRenderer) Refresh() {
	r.fill.FillColor = r.swatch.Color
	if r.swatch.selected {
		r.border.StrokeColor = theme.Color(theme.ColorNamePrimary)
		r.border.StrokeWidth = 3
	} else {
		r.border.StrokeColor = color.Gray{Y: 150}
		r.border.StrokeWidth = 1
	}
	r.fill.Refresh()
	r.border.Refresh()
}

func (r *swatchRenderer) Destroy() {}

// Toolbar holds the drawing controls. Its undo and redo buttons follow
// the board's history.
type Toolbar struct {
	fyne.CanvasObject

	board    *BoardWidget
	tool     *widget.Select
	swatches []*colorSwatch
	width    *widget.Slider
	undo     *widget.Button
	redo     *widget.Button
}

// --- The Main Toolbar ---
func NewToolbar(board *BoardWidget) *Toolbar {
	t := &Toolbar{board: board}

	var names []string
	for _, k := range command.Kinds() {
		names = append(names, k.String())
	}
	t.tool = widget.NewSelect(names, func(name string) {
		if k, err := command.ParseKind(name); err == nil {
			board.SetTool(k)
		}
	})
	t.tool.SetSelected(board.Machine().Tool().String())

	// --- Color Palette ---
	onColorTapped := func(c gfx.RGB) {
		board.SetColor(c)
		board.SetStatus("Color " + c.String())
		t.markColor(c)
	}
	colorBox := container.NewHBox()
	for _, c := range palette {
		sw := newColorSwatch(c, onColorTapped)
		t.swatches = append(t.swatches, sw)
		colorBox.Add(sw)
	}
	t.markColor(board.Machine().Color())

	// --- Stroke Width Slider ---
	t.width = widget.NewSlider(1.0, 50.0)
	t.width.Step = 1
	t.width.SetValue(float64(board.Machine().PenWidth()))
	t.width.OnChanged = func(val float64) {
		board.SetStroke(int(val))
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), t.width)

	t.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), board.Undo)
	t.redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), board.Redo)
	t.Update()

	// --- Assemble everything ---
	t.CanvasObject = container.NewHBox(
		widget.NewLabel("Tool:"),
		t.tool,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		widget.NewSeparator(),
		t.undo,
		t.redo,
		layout.NewSpacer(),
	)
	return t
}

// Update refreshes the undo and redo buttons from the history.
func (t *Toolbar) Update() {
	h := t.board.History()
	setEnabled(t.undo, h.CanUndo())
	setEnabled(t.redo, h.CanRedo())
}

// markColor selects the swatch showing c, if any.
func (t *Toolbar) markColor(c gfx.RGB) {
	for _, sw := range t.swatches {
		sw.SetSelected(sw.Color == c)
	}
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}
