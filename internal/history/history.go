// Package history keeps the ordered log of drawing commands and the cursor
// that separates applied commands from undone ones.
//
// Positions below the cursor are applied; positions at or above it were
// undone and can be redone until the next Append discards them.
package history

import (
	"LocalSketch/internal/command"
	"LocalSketch/internal/gfx"
	"LocalSketch/internal/logging"
)

// Option configures a History.
type Option func(*History)

// WithEvictHook registers fn to be called for every command the history
// discards, in history order.
func WithEvictHook(fn func(command.Command)) Option {
	return func(h *History) { h.onEvict = fn }
}

// History owns the commands appended to it. It is not safe for concurrent
// use.
type History struct {
	cmds    []command.Command
	cursor  int
	onEvict func(command.Command)
}

// New returns an empty history.
func New(opts ...Option) *History {
	h := &History{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Append records cmd as the newest applied command. It does not execute
// it. Every undone command beyond the cursor is discarded first. A nil
// command is ignored.
func (h *History) Append(cmd command.Command) {
	if cmd == nil {
		return
	}
	h.truncate(h.cursor)
	h.cmds = append(h.cmds, cmd)
	h.cursor = len(h.cmds)
}

// Undo reverts the newest applied command on dc. It reports false when
// there is nothing to undo.
func (h *History) Undo(dc gfx.DC) bool {
	if !h.CanUndo() {
		logging.Logger().Debug("nothing to undo")
		return false
	}
	h.cursor--
	cmd := h.cmds[h.cursor]
	cmd.Undo(dc)
	logging.Logger().Debug("undo", "id", cmd.ID(), "kind", cmd.Kind(), "cursor", h.cursor)
	return true
}

// Redo re-applies the oldest undone command on dc. It reports false when
// there is nothing to redo.
func (h *History) Redo(dc gfx.DC) bool {
	if !h.CanRedo() {
		logging.Logger().Debug("nothing to redo")
		return false
	}
	cmd := h.cmds[h.cursor]
	cmd.Execute(dc)
	h.cursor++
	logging.Logger().Debug("redo", "id", cmd.ID(), "kind", cmd.Kind(), "cursor", h.cursor)
	return true
}

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor < len(h.cmds) }

// Replay executes every applied command on dc in order. The history is
// not changed.
func (h *History) Replay(dc gfx.DC) {
	for _, cmd := range h.cmds[:h.cursor] {
		cmd.Execute(dc)
	}
}

// Len returns the number of retained commands, undone ones included.
func (h *History) Len() int { return len(h.cmds) }

// Cursor returns the number of applied commands.
func (h *History) Cursor() int { return h.cursor }

// Clear discards every command.
func (h *History) Clear() { h.truncate(0) }

// Commands returns the applied commands, oldest first.
func (h *History) Commands() []command.Command {
	out := make([]command.Command, h.cursor)
	copy(out, h.cmds)
	return out
}

// Applied returns the data of the applied commands, oldest first.
func (h *History) Applied() []command.DrawData {
	out := make([]command.DrawData, 0, h.cursor)
	for _, cmd := range h.cmds[:h.cursor] {
		out = append(out, cmd.Data())
	}
	return out
}

// truncate discards every command at position n and beyond.
func (h *History) truncate(n int) {
	for _, cmd := range h.cmds[n:] {
		logging.Logger().Debug("evict", "id", cmd.ID(), "kind", cmd.Kind())
		if h.onEvict != nil {
			h.onEvict(cmd)
		}
	}
	clear(h.cmds[n:])
	h.cmds = h.cmds[:n]
	if h.cursor > n {
		h.cursor = n
	}
}
