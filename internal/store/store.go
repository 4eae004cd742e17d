// Package store reads and writes drawings. A drawing is the sequence of
// applied commands, oldest first, encoded as JSON.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"LocalSketch/internal/command"
	"LocalSketch/internal/history"
	"LocalSketch/internal/logging"
)

// Version is the document format written by Save.
const Version = 1

// ErrVersion is returned by Load for documents of an unknown format.
var ErrVersion = errors.New("unsupported drawing version")

// Document is the on-disk form of a drawing.
type Document struct {
	Version  int                `json:"version"`
	Commands []command.DrawData `json:"commands"`
}

// Save writes the applied commands of h to w. Undone commands are not
// saved.
func Save(w io.Writer, h *history.History) error {
	doc := Document{Version: Version, Commands: h.Applied()}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal drawing: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("store: write drawing: %w", err)
	}
	logging.Logger().Info("drawing saved", "commands", len(doc.Commands))
	return nil
}

// Load decodes a drawing from r. Every record is validated; one bad record
// fails the whole load.
func Load(r io.Reader) ([]command.DrawData, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("store: decode drawing: %w", err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("store: %w %d", ErrVersion, doc.Version)
	}
	for i, d := range doc.Commands {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("store: record %d: %w", i, err)
		}
	}
	logging.Logger().Info("drawing loaded", "commands", len(doc.Commands))
	return doc.Commands, nil
}

// Restore replaces the contents of h with commands built from data. The
// cursor ends after the last command. Nothing is rendered; call Replay.
// On error h is left unchanged.
func Restore(h *history.History, data []command.DrawData) error {
	cmds := make([]command.Command, 0, len(data))
	for i, d := range data {
		cmd, err := command.New(d)
		if err != nil {
			return fmt.Errorf("store: record %d: %w", i, err)
		}
		cmds = append(cmds, cmd)
	}
	h.Clear()
	for _, cmd := range cmds {
		h.Append(cmd)
	}
	return nil
}
