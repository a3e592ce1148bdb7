package app

import (
	"image/color"
	"time"

	"github.com/bethropolis/slate/internal/config"
	"github.com/bethropolis/slate/internal/logger"
	"github.com/bethropolis/slate/internal/statusbar"
	"github.com/bethropolis/slate/internal/theme"
	"github.com/bethropolis/slate/internal/tui"
	"github.com/gdamore/tcell/v2"
)

// draw repaints the canvas and the status bar.
func (a *App) draw() {
	a.updateStatusBarContent()

	activeTheme := a.themeManager.Current()
	screen := a.tuiManager.GetScreen()
	width, height := a.tuiManager.Size()

	logger.DebugTagf("draw", "draw: Screen %dx%d, theme %s", width, height, activeTheme.Name)

	tui.DrawCanvas(a.tuiManager, a.canvas.Image(), activeTheme, config.StatusBarHeight)
	a.statusBar.Draw(screen, width, height)
	a.tuiManager.Show()
}

// updateStatusBarContent pushes the board state to the status bar.
func (a *App) updateStatusBarContent() {
	idx := a.history.CurrentIndex()
	undo, redo := a.history.Depth(idx)
	ink := a.session.Ink()

	a.statusBar.SetState(statusbar.State{
		PageNumber: idx + 1,
		PageCount:  a.history.PageCount(),
		Tool:       a.session.Tool().String(),
		Ink:        ink.Name,
		InkColor:   tcell.NewRGBColor(int32(ink.Color.R), int32(ink.Color.G), int32(ink.Color.B)),
		Size:       a.session.Size(),
		Undo:       undo,
		Redo:       redo,
	})
}

// applyTheme pushes the active theme to the screen and status bar.
func (a *App) applyTheme() {
	activeTheme := a.themeManager.Current()
	a.tuiManager.SetStyle(activeTheme.GetStyle(theme.StyleDefault))
	a.statusBar.SetConfig(statusbar.ConfigFromTheme(activeTheme, config.MessageTimeout))
	if cfg := a.config.Load(); cfg != nil {
		a.exporter.Store(a.newExporter(cfg))
	}
	a.requestRedraw()
}

// SetStatusMessage shows a temporary message. Safe from any goroutine.
func (a *App) SetStatusMessage(format string, args ...interface{}) {
	a.statusBar.SetTemporaryMessage(format, args...)
	a.scheduleMessageExpiry()
}

// SetErrorMessage shows a temporary error. Safe from any goroutine.
func (a *App) SetErrorMessage(format string, args ...interface{}) {
	a.statusBar.SetErrorMessage(format, args...)
	a.scheduleMessageExpiry()
}

// scheduleMessageExpiry redraws once the message has timed out.
func (a *App) scheduleMessageExpiry() {
	a.requestRedraw()
	time.AfterFunc(config.MessageTimeout+50*time.Millisecond, a.requestRedraw)
}

// requestRedraw sends a redraw signal non-blockingly.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default:
	}
}

func toColor(c tcell.Color) color.Color {
	r, g, b := c.RGB()
	if r < 0 {
		return color.Black
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
}
