// Package export renders drawings into other formats.
package export

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"LocalSketch/internal/command"
	"LocalSketch/internal/gfx"
	"LocalSketch/internal/logging"
)

const defaultFontHeight = 13

type object struct {
	kind  gfx.Kind
	owner *PDF
	stock bool

	style gfx.PenStyle
	width int
	color gfx.RGB
	null  bool
	font  gfx.FontDesc
}

func (o *object) Kind() gfx.Kind { return o.kind }

// PDF is a drawing context that writes vector output to a single page PDF
// document. One canvas pixel maps to one point.
type PDF struct {
	doc       *gofpdf.Fpdf
	tr        func(string) string
	size      image.Point
	bg        gfx.RGB
	textColor gfx.RGB

	stock map[gfx.Stock]*object
	live  map[*object]struct{}
	pen   *object
	brush *object
	font  *object
}

var _ gfx.DC = (*PDF)(nil)

// NewPDF returns a context for a w×h page filled with bg.
func NewPDF(w, h int, bg gfx.RGB) *PDF {
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(w), Ht: float64(h)},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreator("LocalSketch", true)
	doc.AddPage()

	p := &PDF{
		doc:  doc,
		tr:   doc.UnicodeTranslatorFromDescriptor(""),
		size: image.Pt(w, h),
		bg:   bg,
		live: make(map[*object]struct{}),
	}
	p.stock = map[gfx.Stock]*object{
		gfx.BlackPen:   {kind: gfx.KindPen, owner: p, stock: true, width: 1, color: gfx.Black},
		gfx.NullPen:    {kind: gfx.KindPen, owner: p, stock: true, style: gfx.PenNull},
		gfx.WhiteBrush: {kind: gfx.KindBrush, owner: p, stock: true, color: gfx.White},
		gfx.NullBrush:  {kind: gfx.KindBrush, owner: p, stock: true, null: true},
		gfx.SystemFont: {kind: gfx.KindFont, owner: p, stock: true},
	}
	p.pen = p.stock[gfx.BlackPen]
	p.brush = p.stock[gfx.WhiteBrush]
	p.font = p.stock[gfx.SystemFont]

	doc.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
	doc.Rect(0, 0, float64(w), float64(h), "F")
	return p
}

// Live returns the number of created objects that have not been deleted.
func (p *PDF) Live() int { return len(p.live) }

// Err returns the first error recorded by the document.
func (p *PDF) Err() error { return p.doc.Error() }

// Output writes the document to w. The context cannot be drawn into
// afterwards.
func (p *PDF) Output(w io.Writer) error {
	if err := p.doc.Output(w); err != nil {
		return fmt.Errorf("export: write pdf: %w", err)
	}
	return nil
}

func (p *PDF) alloc(o *object) (gfx.Object, error) {
	if err := p.doc.Error(); err != nil {
		return nil, fmt.Errorf("export: %w: document failed: %v", gfx.ErrResourceCreation, err)
	}
	o.owner = p
	p.live[o] = struct{}{}
	return o, nil
}

func (p *PDF) CreatePen(style gfx.PenStyle, width int, c gfx.RGB) (gfx.Object, error) {
	if width < 0 {
		return nil, fmt.Errorf("export: %w: pen width %d", gfx.ErrResourceCreation, width)
	}
	return p.alloc(&object{kind: gfx.KindPen, style: style, width: width, color: c})
}

func (p *PDF) CreateSolidBrush(c gfx.RGB) (gfx.Object, error) {
	return p.alloc(&object{kind: gfx.KindBrush, color: c})
}

func (p *PDF) CreateFont(desc gfx.FontDesc) (gfx.Object, error) {
	if desc.Height < 0 {
		return nil, fmt.Errorf("export: %w: font height %d", gfx.ErrResourceCreation, desc.Height)
	}
	return p.alloc(&object{kind: gfx.KindFont, font: desc})
}

func (p *PDF) DeleteObject(obj gfx.Object) error {
	o, ok := obj.(*object)
	if !ok || o == nil || o.owner != p {
		return errors.New("export: delete of foreign object")
	}
	if o.stock {
		return nil
	}
	if o == p.pen || o == p.brush || o == p.font {
		return fmt.Errorf("export: delete of selected %s", o.kind)
	}
	if _, ok := p.live[o]; !ok {
		return fmt.Errorf("export: %s deleted twice", o.kind)
	}
	delete(p.live, o)
	return nil
}

func (p *PDF) SelectObject(obj gfx.Object) (gfx.Object, error) {
	o, ok := obj.(*object)
	if !ok || o == nil || o.owner != p {
		return nil, fmt.Errorf("export: %w: foreign object", gfx.ErrBind)
	}
	if _, live := p.live[o]; !o.stock && !live {
		return nil, fmt.Errorf("export: %w: deleted %s", gfx.ErrBind, o.kind)
	}
	var old *object
	switch o.kind {
	case gfx.KindPen:
		old, p.pen = p.pen, o
	case gfx.KindBrush:
		old, p.brush = p.brush, o
	case gfx.KindFont:
		old, p.font = p.font, o
	default:
		return nil, fmt.Errorf("export: %w: unknown kind %s", gfx.ErrBind, o.kind)
	}
	return old, nil
}

func (p *PDF) StockObject(s gfx.Stock) gfx.Object {
	if o, ok := p.stock[s]; ok {
		return o
	}
	return nil
}

func (p *PDF) SetTextColor(c gfx.RGB) gfx.RGB {
	old := p.textColor
	p.textColor = c
	return old
}

func (p *PDF) BkColor() gfx.RGB { return p.bg }

// applyPen sets the stroke state and reports whether the pen draws.
func (p *PDF) applyPen() bool {
	if p.pen.style == gfx.PenNull {
		return false
	}
	c := p.pen.color
	p.doc.SetDrawColor(int(c.R), int(c.G), int(c.B))
	p.doc.SetLineWidth(float64(max(p.pen.width, 1)))
	p.doc.SetLineCapStyle("square")
	p.doc.SetLineJoinStyle("miter")
	switch p.pen.style {
	case gfx.PenDash:
		p.doc.SetDashPattern([]float64{3 * float64(p.pen.width), float64(p.pen.width)}, 0)
	case gfx.PenDot:
		p.doc.SetDashPattern([]float64{float64(p.pen.width), float64(p.pen.width)}, 0)
	default:
		p.doc.SetDashPattern(nil, 0)
	}
	return true
}

// style returns the gofpdf draw style for a closed shape, or "" when
// nothing is drawn.
func (p *PDF) style() string {
	stroke := p.applyPen()
	fill := !p.brush.null
	if fill {
		c := p.brush.color
		p.doc.SetFillColor(int(c.R), int(c.G), int(c.B))
	}
	switch {
	case stroke && fill:
		return "FD"
	case stroke:
		return "D"
	case fill:
		return "F"
	}
	return ""
}

func (p *PDF) DrawLine(p0, p1 image.Point) {
	if !p.applyPen() {
		return
	}
	p.doc.Line(float64(p0.X)+0.5, float64(p0.Y)+0.5, float64(p1.X)+0.5, float64(p1.Y)+0.5)
}

func (p *PDF) Rectangle(r image.Rectangle) {
	r = r.Canon()
	st := p.style()
	if st == "" || r.Empty() {
		return
	}
	p.doc.Rect(float64(r.Min.X)+0.5, float64(r.Min.Y)+0.5, float64(r.Dx()-1), float64(r.Dy()-1), st)
}

func (p *PDF) Ellipse(r image.Rectangle) {
	r = r.Canon()
	st := p.style()
	if st == "" || r.Empty() {
		return
	}
	rx, ry := float64(r.Dx()-1)/2, float64(r.Dy()-1)/2
	p.doc.Ellipse(float64(r.Min.X)+0.5+rx, float64(r.Min.Y)+0.5+ry, rx, ry, 0, st)
}

// TextOut writes text with its top-left corner at pt. Fonts map onto the
// PDF core families: faces containing "mono" or "courier" use Courier,
// "serif" or "times" use Times, everything else Helvetica.
func (p *PDF) TextOut(pt image.Point, text string) {
	desc := p.font.font
	size := float64(desc.Height)
	if size == 0 {
		size = defaultFontHeight
	}
	var style string
	if desc.Bold {
		style += "B"
	}
	if desc.Italic {
		style += "I"
	}
	p.doc.SetFont(family(desc.Face), style, size)
	c := p.textColor
	p.doc.SetTextColor(int(c.R), int(c.G), int(c.B))

	ascent := size * 0.8
	for i, line := range strings.Split(text, "\n") {
		y := float64(pt.Y) + ascent + float64(i)*size*1.2
		p.doc.Text(float64(pt.X), y, p.tr(line))
	}
}

func family(face string) string {
	f := strings.ToLower(face)
	switch {
	case strings.Contains(f, "mono"), strings.Contains(f, "courier"):
		return "Courier"
	case strings.Contains(f, "times"), strings.Contains(f, "serif") && !strings.Contains(f, "sans"):
		return "Times"
	}
	return "Helvetica"
}

// WritePDF replays cmds onto a w×h page with background bg and writes the
// document to w.
func WritePDF(w io.Writer, size image.Point, bg gfx.RGB, cmds []command.Command) error {
	p := NewPDF(size.X, size.Y, bg)
	for _, cmd := range cmds {
		cmd.Execute(p)
	}
	if err := p.Err(); err != nil {
		return fmt.Errorf("export: render pdf: %w", err)
	}
	if err := p.Output(w); err != nil {
		return err
	}
	logging.Logger().Info("pdf exported", "commands", len(cmds), "size", size)
	return nil
}
