package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"LocalSketch/internal/gfx"
)

// coverage at or above threshold paints the pixel.
const threshold = 0x60

type vec struct{ x, y float64 }

// center returns the centre of pixel p.
func center(p image.Point) vec {
	return vec{float64(p.X) + 0.5, float64(p.Y) + 0.5}
}

func (s *Surface) penWidth() (float64, bool) {
	if s.pen == nil || s.pen.style == gfx.PenNull {
		return 0, false
	}
	return float64(max(1, s.pen.width)), true
}

// DrawLine implements gfx.DC.
func (s *Surface) DrawLine(p0, p1 image.Point) {
	w, ok := s.penWidth()
	if !ok {
		return
	}
	s.strokeSegment(center(p0), center(p1), w, rgba(s.pen.color))
}

// Rectangle implements gfx.DC. The brush fills r and the pen outlines it
// through the centres of its edge pixels.
func (s *Surface) Rectangle(r image.Rectangle) {
	r = r.Canon()
	if s.brush != nil && !s.brush.null {
		draw.Draw(s.img, r.Intersect(s.img.Rect), image.NewUniform(rgba(s.brush.color)), image.Point{}, draw.Src)
	}
	w, ok := s.penWidth()
	if !ok {
		return
	}
	x1, y1 := max(r.Min.X, r.Max.X-1), max(r.Min.Y, r.Max.Y-1)
	corners := []vec{
		center(r.Min),
		center(image.Pt(x1, r.Min.Y)),
		center(image.Pt(x1, y1)),
		center(image.Pt(r.Min.X, y1)),
	}
	s.strokeClosed(corners, w, rgba(s.pen.color))
}

// Ellipse implements gfx.DC. The ellipse is inscribed in r.
func (s *Surface) Ellipse(r image.Rectangle) {
	r = r.Canon()
	cx := float64(r.Min.X+r.Max.X) / 2
	cy := float64(r.Min.Y+r.Max.Y) / 2
	rx := math.Max(0, float64(r.Dx())/2-0.5)
	ry := math.Max(0, float64(r.Dy())/2-0.5)

	verts := ellipseVertices(cx, cy, rx, ry)
	if s.brush != nil && !s.brush.null && rx > 0 && ry > 0 {
		s.fillPolygon(verts, rgba(s.brush.color))
	}
	w, ok := s.penWidth()
	if !ok {
		return
	}
	s.strokeClosed(verts, w, rgba(s.pen.color))
}

func ellipseVertices(cx, cy, rx, ry float64) []vec {
	perimeter := 2 * math.Pi * math.Sqrt((rx*rx+ry*ry)/2)
	n := min(max(int(perimeter/2)+16, 16), 1024)
	n = (n + 3) / 4 * 4
	verts := make([]vec, n)
	for i := range verts {
		t := 2 * math.Pi * float64(i) / float64(n)
		verts[i] = vec{cx + rx*math.Cos(t), cy + ry*math.Sin(t)}
	}
	return verts
}

// TextOut implements gfx.DC. p is the top-left corner of the first line;
// the background is left untouched.
func (s *Surface) TextOut(p image.Point, text string) {
	if text == "" {
		return
	}
	var face font.Face = basicfont.Face7x13
	if s.font != nil && s.font.face != nil {
		face = s.font.face
	}
	m := face.Metrics()
	lineHeight := m.Height.Ceil()
	if lineHeight == 0 {
		lineHeight = (m.Ascent + m.Descent).Ceil()
	}
	c := rgba(s.textColor)
	for i, line := range strings.Split(text, "\n") {
		d := &font.Drawer{Face: face}
		w := d.MeasureString(line).Ceil()
		h := (m.Ascent + m.Descent).Ceil()
		if w <= 0 || h <= 0 {
			continue
		}
		mask := image.NewAlpha(image.Rect(0, 0, w, h))
		d.Dst = mask
		d.Src = image.Opaque
		d.Dot = fixed.P(0, m.Ascent.Ceil())
		d.DrawString(line)
		s.paintMask(mask, p.Add(image.Pt(0, i*lineHeight)), c)
	}
}

func (s *Surface) strokeClosed(pts []vec, w float64, c color.RGBA) {
	for i := range pts {
		s.strokeSegment(pts[i], pts[(i+1)%len(pts)], w, c)
	}
}

// strokeSegment paints a w wide segment with square caps centred on both
// end points.
func (s *Surface) strokeSegment(a, b vec, w float64, c color.RGBA) {
	hw := w / 2
	s.fillPolygon(square(a, hw), c)
	if a == b {
		return
	}
	s.fillPolygon(square(b, hw), c)
	dx, dy := b.x-a.x, b.y-a.y
	l := math.Hypot(dx, dy)
	nx, ny := -dy/l*hw, dx/l*hw
	s.fillPolygon([]vec{
		{a.x + nx, a.y + ny},
		{b.x + nx, b.y + ny},
		{b.x - nx, b.y - ny},
		{a.x - nx, a.y - ny},
	}, c)
}

func square(p vec, hw float64) []vec {
	return []vec{
		{p.x - hw, p.y - hw},
		{p.x + hw, p.y - hw},
		{p.x + hw, p.y + hw},
		{p.x - hw, p.y + hw},
	}
}

// fillPolygon rasterizes the part of pts that lies on the surface and
// paints the covered pixels.
func (s *Surface) fillPolygon(pts []vec, c color.RGBA) {
	if len(pts) < 3 {
		return
	}
	minX, minY := pts[0].x, pts[0].y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.x), math.Max(maxX, p.x)
		minY, maxY = math.Min(minY, p.y), math.Max(maxY, p.y)
	}
	box := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	box = box.Intersect(s.img.Rect)
	if box.Empty() {
		return
	}
	pts = clipPolygon(pts, box)
	if len(pts) < 3 {
		return
	}
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	z := vector.NewRasterizer(box.Dx(), box.Dy())
	z.MoveTo(float32(pts[0].x-ox), float32(pts[0].y-oy))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.x-ox), float32(p.y-oy))
	}
	z.ClosePath()
	mask := image.NewAlpha(image.Rect(0, 0, box.Dx(), box.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	s.paintMask(mask, box.Min, c)
}

// clipPolygon cuts a convex polygon down to r, one edge at a time.
func clipPolygon(pts []vec, r image.Rectangle) []vec {
	x0, y0 := float64(r.Min.X), float64(r.Min.Y)
	x1, y1 := float64(r.Max.X), float64(r.Max.Y)
	pts = clipEdge(pts, func(p vec) float64 { return p.x - x0 })
	pts = clipEdge(pts, func(p vec) float64 { return x1 - p.x })
	pts = clipEdge(pts, func(p vec) float64 { return p.y - y0 })
	return clipEdge(pts, func(p vec) float64 { return y1 - p.y })
}

// clipEdge keeps the part of pts where dist is not negative.
func clipEdge(pts []vec, dist func(vec) float64) []vec {
	if len(pts) == 0 {
		return nil
	}
	out := make([]vec, 0, len(pts)+2)
	prev := pts[len(pts)-1]
	dp := dist(prev)
	for _, p := range pts {
		d := dist(p)
		if (d >= 0) != (dp >= 0) {
			t := dp / (dp - d)
			out = append(out, vec{prev.x + t*(p.x-prev.x), prev.y + t*(p.y-prev.y)})
		}
		if d >= 0 {
			out = append(out, p)
		}
		prev, dp = p, d
	}
	return out
}

func (s *Surface) paintMask(mask *image.Alpha, origin image.Point, c color.RGBA) {
	b := mask.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.AlphaAt(x, y).A < threshold {
				continue
			}
			p := origin.Add(image.Pt(x-b.Min.X, y-b.Min.Y))
			if p.In(s.img.Rect) {
				s.img.SetRGBA(p.X, p.Y, c)
			}
		}
	}
}
