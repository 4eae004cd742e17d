package ui

import (
	"fmt"
	"image"
	"strings"

	"fyne.io/fyne/v2"

	"LocalSketch/internal/export"
	"LocalSketch/internal/logging"
)

// ExportToFile writes the drawing to writer as a PDF page, or as a text
// summary when the file name ends in .txt.
func (b *BoardWidget) ExportToFile(writer fyne.URIWriteCloser) {
	defer func() {
		if err := writer.Close(); err != nil {
			logging.Logger().Error("close writer", "uri", writer.URI(), "err", err)
		}
	}()

	var err error
	kind := "PDF"
	if strings.EqualFold(writer.URI().Extension(), ".txt") {
		kind = "summary"
		err = export.WriteSummary(writer, b.hist.Applied())
	} else {
		r := b.surface.Bounds()
		err = export.WritePDF(writer, image.Pt(r.Dx(), r.Dy()), b.surface.BkColor(), b.hist.Commands())
	}
	if err != nil {
		logging.Logger().Error("export failed", "uri", writer.URI(), "err", err)
		b.SetStatus("Error exporting " + kind)
		return
	}
	b.SetStatus(fmt.Sprintf("Exported %s (%d commands)", kind, b.hist.Cursor()))
}
