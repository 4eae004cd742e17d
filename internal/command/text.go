package command

import "LocalSketch/internal/gfx"

// TextCommand writes Text with its top-left corner at Begin.
type TextCommand struct{ base }

func (c *TextCommand) Execute(dc gfx.DC) {
	c.run(dc, phaseExecute, func(dc gfx.DC) error { return c.draw(dc, c.data.Stroke) })
}

func (c *TextCommand) Undo(dc gfx.DC) {
	c.run(dc, phaseUndo, func(dc gfx.DC) error { return c.draw(dc, dc.BkColor()) })
}

func (c *TextCommand) Clone() Command { return &TextCommand{c.clone()} }

func (c *TextCommand) draw(dc gfx.DC, col gfx.RGB) error {
	return withFont(dc, c.data.Font, func() error {
		defer dc.SetTextColor(dc.SetTextColor(col))
		dc.TextOut(c.data.Begin, c.data.Text)
		return nil
	})
}
