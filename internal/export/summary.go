package export

import (
	"bufio"
	"fmt"
	"io"

	"LocalSketch/internal/command"
)

// WriteSummary writes a plain text listing of the drawing commands in
// data, oldest first.
func WriteSummary(w io.Writer, data []command.DrawData) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "LocalSketch Export\n")
	fmt.Fprintf(bw, "==================\n\n")
	fmt.Fprintf(bw, "Total commands: %d\n\n", len(data))

	for i, d := range data {
		fmt.Fprintf(bw, "Command %d: %s\n", i+1, d.Kind)
		fmt.Fprintf(bw, "  Color: %s\n", d.Stroke)
		fmt.Fprintf(bw, "  Width: %d\n", d.PenWidth)
		switch {
		case d.Kind.Freehand():
			fmt.Fprintf(bw, "  Points: %d\n", len(d.Points))
			if len(d.Points) > 0 {
				fmt.Fprintf(bw, "  Start: %v\n", d.Points[0])
				fmt.Fprintf(bw, "  End: %v\n", d.Points[len(d.Points)-1])
			}
		case d.Kind == command.Text:
			fmt.Fprintf(bw, "  At: %v\n", d.Begin)
			fmt.Fprintf(bw, "  Text: %q\n", d.Text)
		default:
			fmt.Fprintf(bw, "  Start: %v\n", d.Begin)
			fmt.Fprintf(bw, "  End: %v\n", d.End)
		}
		fmt.Fprintf(bw, "\n")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("export: write summary: %w", err)
	}
	return nil
}
