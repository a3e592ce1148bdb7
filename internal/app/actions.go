package app

import (
	"errors"

	"github.com/bethropolis/slate/internal/canvas"
	"github.com/bethropolis/slate/internal/config"
	"github.com/bethropolis/slate/internal/event"
	"github.com/bethropolis/slate/internal/export"
	"github.com/bethropolis/slate/internal/input"
	"github.com/bethropolis/slate/internal/logger"
	"github.com/bethropolis/slate/internal/tui"
	"github.com/gdamore/tcell/v2"
)

// handleAction runs a key action and reports whether to redraw.
func (a *App) handleAction(ev input.ActionEvent) bool {
	logger.DebugTagf("input", "App: Action %v", ev.Action)

	switch ev.Action {
	case input.ActionQuit:
		a.requestQuit()
		return false

	case input.ActionUndo:
		a.finishStroke()
		if !a.history.Undo(a.history.CurrentIndex()) {
			a.SetStatusMessage("Nothing to undo")
		}
	case input.ActionRedo:
		a.finishStroke()
		if !a.history.Redo(a.history.CurrentIndex()) {
			a.SetStatusMessage("Nothing to redo")
		}
	case input.ActionClear:
		a.finishStroke()
		a.history.Clear(a.history.CurrentIndex())

	case input.ActionNextPage:
		a.finishStroke()
		a.navigate(a.history.NextPage)
	case input.ActionPrevPage:
		a.finishStroke()
		a.navigate(a.history.PrevPage)

	case input.ActionSaveSlide:
		a.finishStroke()
		a.saveSlide()
	case input.ActionExportAll:
		a.finishStroke()
		a.exportAll()
	case input.ActionCopySlide:
		a.finishStroke()
		a.copySlide()

	case input.ActionToolPen:
		a.setTool(canvas.ToolPen)
	case input.ActionToolHighlight:
		a.setTool(canvas.ToolHighlight)
	case input.ActionToolEraser:
		a.setTool(canvas.ToolEraser)
	case input.ActionSelectInk:
		if err := a.session.SelectInk(ev.Index); err != nil {
			a.SetErrorMessage("%v", err)
			return true
		}
		a.toolChanged()
	case input.ActionBrushGrow:
		a.session.Grow(1)
		a.toolChanged()
	case input.ActionBrushShrink:
		a.session.Grow(-1)
		a.toolChanged()

	case input.ActionCycleTheme:
		t := a.themeManager.Cycle()
		a.applyTheme()
		a.SetStatusMessage("Theme: %s", t.Name)

	default:
		return false
	}
	return true
}

// handleMouse turns primary-button gestures into strokes.
func (a *App) handleMouse(ev *tcell.EventMouse) bool {
	pe, ok := a.pointer.Process(ev)
	if !ok {
		return false
	}
	p := tui.CellToPixel(pe.Cell)

	switch pe.Kind {
	case input.PointerDown:
		if !tui.InCanvas(a.tuiManager, pe.Cell, config.StatusBarHeight) {
			return false
		}
		a.session.Begin(p)
		a.canvas.Stroke(p, p, a.session.Brush())
		return true
	case input.PointerDrag:
		seg, ok := a.session.Move(p)
		if !ok {
			return false
		}
		a.canvas.Stroke(seg.From, seg.To, a.session.Brush())
		return true
	case input.PointerUp:
		if a.session.Drawing() {
			if seg, ok := a.session.Move(p); ok {
				a.canvas.Stroke(seg.From, seg.To, a.session.Brush())
			}
		}
		return a.finishStroke()
	}
	return false
}

// finishStroke ends a stroke in progress and commits the surface.
// It returns true if there was a stroke.
func (a *App) finishStroke() bool {
	if !a.session.End() {
		return false
	}
	if err := a.history.CommitLive(); err != nil {
		logger.Warnf("App: %v", err)
		a.SetErrorMessage("Stroke not saved: %v", err)
	}
	return true
}

func (a *App) navigate(move func() (bool, error)) {
	moved, err := move()
	if err != nil {
		logger.Warnf("App: %v", err)
		a.SetErrorMessage("Cannot change slide: %v", err)
		return
	}
	if !moved {
		a.SetStatusMessage("Already on the first slide")
	}
}

func (a *App) setTool(t canvas.Tool) {
	a.session.SetTool(t)
	a.toolChanged()
}

func (a *App) toolChanged() {
	data := event.ToolChangedData{
		Tool: a.session.Tool().String(),
		Ink:  a.session.Ink().Name,
		Size: a.session.Size(),
	}
	a.eventManager.Dispatch(event.TypeToolChanged, data)
}

// saveSlide exports the current slide in the background.
func (a *App) saveSlide() {
	snap := a.history.Current()
	pageNumber := a.history.CurrentPageNumber()
	exp := a.exporter.Load()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		path, err := exp.Slide(snap, pageNumber)
		if err != nil {
			logger.Errorf("App: %v", err)
			a.SetErrorMessage("Save failed: %v", err)
			return
		}
		a.SetStatusMessage("Saved %s", path)
	}()
}

// exportAll exports every slide in the background.
func (a *App) exportAll() {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		paths, err := a.boardAPI.ExportAll(a.ctx)
		if err != nil {
			if a.ctx.Err() == nil {
				logger.Errorf("App: %v", err)
				a.SetErrorMessage("Export failed: %v", err)
			}
			return
		}
		a.SetStatusMessage("Exported %d slides to %s", len(paths), a.exporter.Load().Options().Dir)
	}()
}

// copySlide puts the current slide on the clipboard as a data URL.
func (a *App) copySlide() {
	snap := a.history.Current()
	exp := a.exporter.Load()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		err := exp.CopyDataURL(snap)
		switch {
		case errors.Is(err, export.ErrClipboardDisabled):
			a.SetStatusMessage("System clipboard is disabled")
		case err != nil:
			logger.Errorf("App: %v", err)
			a.SetErrorMessage("Copy failed: %v", err)
		default:
			a.SetStatusMessage("Copied slide %d to the clipboard", a.history.CurrentPageNumber())
		}
	}()
}
