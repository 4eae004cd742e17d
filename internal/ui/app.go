package ui

import (
	"image"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"LocalSketch/internal/config"
	"LocalSketch/internal/logging"
)

const appID = "io.localsketch.app"

// Editor ties the board, toolbar and menus of one window together.
type Editor struct {
	Window  fyne.Window
	Board   *BoardWidget
	Toolbar *Toolbar

	menu     *fyne.MainMenu
	undoItem *fyne.MenuItem
	redoItem *fyne.MenuItem
	gridItem *fyne.MenuItem
	scroll   *container.Scroll
}

// NewEditor builds the editor UI into a new window of a.
func NewEditor(a fyne.App, cfg config.Config) *Editor {
	w := a.NewWindow("LocalSketch")
	board := NewBoardWidget(cfg)
	e := &Editor{Window: w, Board: board, Toolbar: NewToolbar(board), scroll: container.NewScroll(board)}

	board.OnChanged = e.update
	board.OnTextRequest = e.askText

	e.undoItem = fyne.NewMenuItem("Undo", board.Undo)
	e.undoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}
	e.redoItem = fyne.NewMenuItem("Redo", board.Redo)
	e.redoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault}
	zoomIn := fyne.NewMenuItem("Zoom In", e.view(board.ZoomIn))
	zoomIn.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyEqual, Modifier: fyne.KeyModifierShortcutDefault}
	zoomOut := fyne.NewMenuItem("Zoom Out", e.view(board.ZoomOut))
	zoomOut.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyMinus, Modifier: fyne.KeyModifierShortcutDefault}
	reset := fyne.NewMenuItem("Reset View", e.view(e.resetView))
	reset.Shortcut = &desktop.CustomShortcut{KeyName: fyne.Key0, Modifier: fyne.KeyModifierShortcutDefault}
	e.gridItem = fyne.NewMenuItem("Show Grid", e.toggleGrid)

	e.menu = fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("New", board.ClearPaths),
			fyne.NewMenuItem("Open...", e.open),
			fyne.NewMenuItem("Save...", e.save),
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Export...", e.export),
		),
		fyne.NewMenu("Edit", e.undoItem, e.redoItem),
		fyne.NewMenu("View", zoomIn, zoomOut, reset, fyne.NewMenuItemSeparator(), e.gridItem),
	)
	w.SetMainMenu(e.menu)
	for _, item := range []*fyne.MenuItem{e.undoItem, e.redoItem, zoomIn, zoomOut, reset} {
		item := item
		w.Canvas().AddShortcut(item.Shortcut, func(fyne.Shortcut) { item.Action() })
	}
	w.Canvas().SetOnTypedKey(func(k *fyne.KeyEvent) {
		if k.Name == fyne.KeyEscape {
			board.Cancel()
		}
	})

	content := container.NewBorder(e.Toolbar, board.StatusBar(), nil, nil, e.scroll)
	w.SetContent(content)
	r := board.Surface().Bounds()
	w.Resize(fyne.NewSize(float32(r.Dx())+16, float32(r.Dy())+96))
	e.update()
	return e
}

// update projects the history state onto the menus and buttons.
func (e *Editor) update() {
	h := e.Board.History()
	e.undoItem.Disabled = !h.CanUndo()
	e.redoItem.Disabled = !h.CanRedo()
	e.menu.Refresh()
	e.Toolbar.Update()
}

// view wraps a zoom action so the scroll area follows the new board size.
func (e *Editor) view(fn func()) func() {
	return func() {
		fn()
		e.scroll.Refresh()
	}
}

func (e *Editor) resetView() {
	e.Board.ResetView()
	e.scroll.ScrollToOffset(fyne.NewPos(0, 0))
}

func (e *Editor) toggleGrid() {
	e.Board.ToggleGrid()
	e.gridItem.Checked = e.Board.GridVisible()
	e.menu.Refresh()
}

func (e *Editor) askText(at image.Point) {
	entry := widget.NewMultiLineEntry()
	entry.SetPlaceHolder("Text")
	dialog.ShowCustomConfirm("Place text", "Place", "Cancel", entry, func(ok bool) {
		if !ok {
			e.Board.CancelText()
			return
		}
		e.Board.CommitText(entry.Text)
	}, e.Window)
	e.Window.Canvas().Focus(entry)
	logging.Logger().Debug("text requested", "at", at)
}

func (e *Editor) open() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, e.Window)
			return
		}
		if r == nil {
			return
		}
		e.Board.LoadFromFile(r)
	}, e.Window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	d.Show()
}

func (e *Editor) save() {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, e.Window)
			return
		}
		if w == nil {
			return
		}
		e.Board.SaveToFile(w)
	}, e.Window)
	d.SetFileName("drawing.json")
	d.Show()
}

func (e *Editor) export() {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, e.Window)
			return
		}
		if w == nil {
			return
		}
		e.Board.ExportToFile(w)
	}, e.Window)
	d.SetFileName("drawing.pdf")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".pdf", ".txt"}))
	d.Show()
}

// OpenPath loads the drawing stored at path.
func (e *Editor) OpenPath(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := e.Board.Load(f); err != nil {
		return err
	}
	e.Board.SetStatus("Loaded " + path)
	return nil
}

// RunApp opens the editor window and blocks until it is closed. A
// non-empty path is loaded first.
func RunApp(cfg config.Config, path string) {
	myApp := app.NewWithID(appID)
	e := NewEditor(myApp, cfg)
	myApp.Lifecycle().SetOnExitedForeground(e.Board.Cancel)

	if path != "" {
		if err := e.OpenPath(path); err != nil {
			logging.Logger().Error("open failed", "path", path, "err", err)
			e.Board.SetStatus("Could not open " + path)
		}
	}
	e.Window.ShowAndRun()
}
