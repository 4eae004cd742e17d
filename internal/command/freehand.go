package command

import "LocalSketch/internal/gfx"

// PencilCommand draws a polyline through Points. Fewer than two points
// render nothing.
type PencilCommand struct{ base }

func (c *PencilCommand) Execute(dc gfx.DC) {
	c.run(dc, phaseExecute, func(dc gfx.DC) error { return c.draw(dc, c.data.Stroke) })
}

func (c *PencilCommand) Undo(dc gfx.DC) {
	c.run(dc, phaseUndo, func(dc gfx.DC) error { return c.draw(dc, dc.BkColor()) })
}

func (c *PencilCommand) Clone() Command { return &PencilCommand{c.clone()} }

func (c *PencilCommand) draw(dc gfx.DC, col gfx.RGB) error {
	return drawStroke(dc, c.data, col)
}

// EraserCommand paints a polyline through Points in the background colour.
//
// Undo paints the same stroke in the background colour again: the pixels
// under the stroke are not saved, so undoing an erasure on the live canvas
// does not bring them back. A full replay of the history (which no longer
// includes the undone eraser) does.
type EraserCommand struct{ base }

func (c *EraserCommand) Execute(dc gfx.DC) {
	c.run(dc, phaseExecute, func(dc gfx.DC) error { return drawStroke(dc, c.data, dc.BkColor()) })
}

func (c *EraserCommand) Undo(dc gfx.DC) {
	c.run(dc, phaseUndo, func(dc gfx.DC) error { return drawStroke(dc, c.data, dc.BkColor()) })
}

func (c *EraserCommand) Clone() Command { return &EraserCommand{c.clone()} }

func drawStroke(dc gfx.DC, d DrawData, col gfx.RGB) error {
	if len(d.Points) < 2 {
		return nil
	}
	return withPen(dc, d.PenWidth, col, func() error {
		Polyline(dc, d.Points)
		return nil
	})
}
