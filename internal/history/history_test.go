package history

import (
	"bytes"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalSketch/internal/command"
	"LocalSketch/internal/gfx"
	"LocalSketch/internal/gfx/gfxtest"
	"LocalSketch/internal/logging"
	"LocalSketch/internal/raster"
)

func line(y int) command.Command {
	return command.MustNew(command.DrawData{
		Kind:     command.LineSegment,
		Begin:    image.Pt(2, y),
		End:      image.Pt(60, y),
		PenWidth: 2,
		Stroke:   gfx.RGB{R: 200},
	})
}

func ids(cmds []command.Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.ID()
	}
	return out
}

func TestEmptyHistory(t *testing.T) {
	h := New()
	dc := gfxtest.New(gfx.White)

	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	assert.False(t, h.Undo(dc))
	assert.False(t, h.Redo(dc))
	assert.Empty(t, dc.Calls)
	assert.Equal(t, 0, h.Len())
	assert.Empty(t, h.Applied())
}

func TestAppendDoesNotExecute(t *testing.T) {
	h := New()
	h.Append(line(4))
	h.Append(nil)

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 1, h.Cursor())
	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestUndoRedoMoveCursor(t *testing.T) {
	h := New()
	dc := gfxtest.New(gfx.White)
	c1, c2 := line(4), line(10)
	h.Append(c1)
	h.Append(c2)

	require.True(t, h.Undo(dc))
	assert.Equal(t, 1, h.Cursor())
	assert.True(t, h.CanRedo())
	calls := dc.Ops("line")
	require.Len(t, calls, 1)
	assert.Equal(t, image.Pt(2, 10), calls[0].P0, "undo reverts the newest command")
	assert.Equal(t, gfx.White, calls[0].Pen.Color)

	dc.Reset()
	require.True(t, h.Redo(dc))
	assert.Equal(t, 2, h.Cursor())
	calls = dc.Ops("line")
	require.Len(t, calls, 1)
	assert.Equal(t, gfx.RGB{R: 200}, calls[0].Pen.Color)
	assert.False(t, h.Redo(dc))
}

func TestAppendAfterUndoEvicts(t *testing.T) {
	var evicted []command.Command
	h := New(WithEvictHook(func(c command.Command) { evicted = append(evicted, c) }))
	dc := gfxtest.New(gfx.White)
	c1, c2, c3 := line(4), line(10), line(16)

	h.Append(c1)
	h.Append(c2)
	require.True(t, h.Undo(dc))
	h.Append(c3)

	assert.Equal(t, []string{c1.ID(), c3.ID()}, ids(h.Commands()))
	assert.Equal(t, []string{c2.ID()}, ids(evicted))
	assert.False(t, h.CanRedo())
	assert.False(t, h.Redo(dc))
}

func TestCanUndoCanRedoMatchCursor(t *testing.T) {
	h := New()
	dc := gfxtest.New(gfx.White)
	for i := 0; i < 3; i++ {
		h.Append(line(4 + 6*i))
	}
	ops := []func(gfx.DC) bool{h.Undo, h.Undo, h.Redo, h.Undo, h.Undo, h.Undo, h.Redo, h.Redo, h.Redo, h.Redo}
	for _, op := range ops {
		op(dc)
		assert.Equal(t, h.Cursor() != 0, h.CanUndo())
		assert.Equal(t, h.Cursor() != h.Len(), h.CanRedo())
	}
}

func TestClear(t *testing.T) {
	var n int
	h := New(WithEvictHook(func(command.Command) { n++ }))
	h.Append(line(4))
	h.Append(line(10))
	h.Undo(nil)

	h.Clear()
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, 0, h.Cursor())
}

func TestAppliedReturnsData(t *testing.T) {
	h := New()
	h.Append(line(4))
	h.Append(line(10))
	h.Append(line(16))
	h.Undo(nil)

	got := h.Applied()
	require.Len(t, got, 2)
	assert.Equal(t, 4, got[0].Begin.Y)
	assert.Equal(t, 10, got[1].Begin.Y)
}

func TestReplayMatchesIncrementalRendering(t *testing.T) {
	shapes := []command.DrawData{
		{Kind: command.LineSegment, Begin: image.Pt(2, 4), End: image.Pt(60, 4), PenWidth: 2, Stroke: gfx.RGB{R: 255}},
		{Kind: command.Rectangle, Begin: image.Pt(4, 12), End: image.Pt(28, 30), PenWidth: 3, Stroke: gfx.RGB{G: 160}},
		{Kind: command.Ellipse, Begin: image.Pt(34, 12), End: image.Pt(60, 30), PenWidth: 1, Stroke: gfx.RGB{B: 255}},
		{Kind: command.Pencil, Points: []image.Point{{2, 38}, {20, 44}, {40, 36}}, PenWidth: 2, Stroke: gfx.Black},
		{Kind: command.Text, Begin: image.Pt(44, 34), Text: "ok", PenWidth: 1, Stroke: gfx.Black},
	}
	type step struct {
		op  string
		arg int
	}
	scripts := [][]step{
		{{"append", 0}, {"append", 1}, {"append", 2}},
		{{"append", 0}, {"append", 1}, {"undo", 0}, {"append", 2}, {"append", 3}},
		{{"append", 0}, {"append", 1}, {"append", 2}, {"undo", 0}, {"undo", 0}, {"redo", 0}},
		{{"append", 3}, {"undo", 0}, {"redo", 0}, {"append", 4}, {"undo", 0}, {"undo", 0}, {"undo", 0}},
		{{"append", 4}, {"append", 2}, {"undo", 0}, {"undo", 0}, {"redo", 0}, {"redo", 0}, {"append", 0}},
	}
	bg := gfx.RGB{R: 255, G: 255, B: 250}
	for i, script := range scripts {
		live := raster.New(64, 48, raster.WithBackground(bg))
		h := New()
		for _, s := range script {
			switch s.op {
			case "append":
				c := command.MustNew(shapes[s.arg])
				c.Execute(live)
				h.Append(c)
			case "undo":
				h.Undo(live)
			case "redo":
				h.Redo(live)
			}
		}

		fresh := raster.New(64, 48, raster.WithBackground(bg))
		h.Replay(fresh)
		assert.Equal(t, fresh.Image().Pix, live.Image().Pix, "script %d", i)

		cursor, n := h.Cursor(), h.Len()
		h.Replay(fresh)
		assert.Equal(t, cursor, h.Cursor())
		assert.Equal(t, n, h.Len())
	}
}

func TestReplaySurvivesFailingCommand(t *testing.T) {
	var buf bytes.Buffer
	logging.SetLogger(logging.New(&buf, "warn"))
	t.Cleanup(func() { logging.SetLogger(nil) })

	h := New()
	for i := 0; i < 5; i++ {
		h.Append(line(4 + 8*i))
	}
	dc := gfxtest.New(gfx.White)
	var n int
	dc.FailCreate = func(gfx.Kind) bool {
		n++
		return n == 3
	}

	h.Replay(dc)
	lines := dc.Ops("line")
	require.Len(t, lines, 4)
	for _, l := range lines {
		assert.NotEqual(t, 20, l.P0.Y, "third command renders nothing")
	}
	assert.Equal(t, 0, dc.Live())
	assert.Contains(t, buf.String(), "draw command failed")
	assert.Equal(t, 5, h.Cursor())
}
