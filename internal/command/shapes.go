package command

import "LocalSketch/internal/gfx"

// LineCommand draws a straight segment from Begin to End.
type LineCommand struct{ base }

func (c *LineCommand) Execute(dc gfx.DC) {
	c.run(dc, phaseExecute, func(dc gfx.DC) error { return c.draw(dc, c.data.Stroke) })
}

func (c *LineCommand) Undo(dc gfx.DC) {
	c.run(dc, phaseUndo, func(dc gfx.DC) error { return c.draw(dc, dc.BkColor()) })
}

func (c *LineCommand) Clone() Command { return &LineCommand{c.clone()} }

func (c *LineCommand) draw(dc gfx.DC, col gfx.RGB) error {
	return withPen(dc, c.data.PenWidth, col, func() error {
		dc.DrawLine(c.data.Begin, c.data.End)
		return nil
	})
}

// RectangleCommand outlines the box spanned by Begin and End. Undo fills
// the box with the background colour.
type RectangleCommand struct{ base }

func (c *RectangleCommand) Execute(dc gfx.DC) {
	c.run(dc, phaseExecute, func(dc gfx.DC) error {
		return outline(dc, c.data.PenWidth, c.data.Stroke, func() { dc.Rectangle(c.data.Bounds()) })
	})
}

func (c *RectangleCommand) Undo(dc gfx.DC) {
	c.run(dc, phaseUndo, func(dc gfx.DC) error {
		return filled(dc, c.data.PenWidth, dc.BkColor(), func() { dc.Rectangle(c.data.Bounds()) })
	})
}

func (c *RectangleCommand) Clone() Command { return &RectangleCommand{c.clone()} }

// EllipseCommand outlines the ellipse inscribed in the box spanned by Begin
// and End. It backs both the Circle and the Ellipse kind.
type EllipseCommand struct{ base }

func (c *EllipseCommand) Execute(dc gfx.DC) {
	c.run(dc, phaseExecute, func(dc gfx.DC) error {
		return outline(dc, c.data.PenWidth, c.data.Stroke, func() { dc.Ellipse(c.data.Bounds()) })
	})
}

func (c *EllipseCommand) Undo(dc gfx.DC) {
	c.run(dc, phaseUndo, func(dc gfx.DC) error {
		return filled(dc, c.data.PenWidth, dc.BkColor(), func() { dc.Ellipse(c.data.Bounds()) })
	})
}

func (c *EllipseCommand) Clone() Command { return &EllipseCommand{c.clone()} }

func outline(dc gfx.DC, width int, stroke gfx.RGB, shape func()) error {
	return withPen(dc, width, stroke, func() error {
		return withNullBrush(dc, func() error {
			shape()
			return nil
		})
	})
}

func filled(dc gfx.DC, width int, col gfx.RGB, shape func()) error {
	return withPen(dc, width, col, func() error {
		return withBrush(dc, col, func() error {
			shape()
			return nil
		})
	})
}
