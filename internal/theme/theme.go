// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/bethropolis/slate/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// Style names looked up by the UI.
const (
	StyleDefault       = "Default"
	StyleCanvas        = "Canvas"
	StyleStatusBar     = "StatusBar"
	StyleStatusMessage = "StatusBar.Message"
	StyleStatusError   = "StatusBar.Error"
	StyleStatusInk     = "StatusBar.Ink"
)

// Theme maps style names to tcell styles.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle returns the named style, falling back to the part before the first
// dot, then to "Default", then to tcell's default.
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}

	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		baseName := name[:dotIndex]
		if style, ok := t.Styles[baseName]; ok {
			logger.DebugTagf("theme", "Theme '%s': Style '%s' not found, using base '%s'", t.Name, name, baseName)
			return style
		}
	}

	if defStyle, ok := t.Styles[StyleDefault]; ok {
		if name != StyleDefault {
			logger.DebugTagf("theme", "Theme '%s': Style '%s' not found, falling back to 'Default'", t.Name, name)
		}
		return defStyle
	}

	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// CanvasColor is the color shown where the canvas has no ink.
func (t *Theme) CanvasColor() tcell.Color {
	_, bg, _ := t.GetStyle(StyleCanvas).Decompose()
	if bg == tcell.ColorDefault || bg == tcell.ColorReset {
		return tcell.ColorBlack
	}
	return bg
}

// --- Built-in themes ---

var (
	Blackboard Theme
	Whiteboard Theme
)

func init() {
	bbSurface := tcell.NewHexColor(0x1e2326)
	bbPanel := tcell.NewHexColor(0x2a2f38)
	bbChalk := tcell.NewHexColor(0xc5cdd9)
	bbMuted := tcell.NewHexColor(0x5c6370)
	bbYellow := tcell.NewHexColor(0xe5c07b)
	bbRed := tcell.NewHexColor(0xe06c75)

	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(bbChalk)
	Blackboard = Theme{
		Name:   "Blackboard",
		IsDark: true,
		Styles: map[string]tcell.Style{
			StyleDefault:       base,
			StyleCanvas:        base.Background(bbSurface),
			StyleStatusBar:     base.Background(bbPanel),
			StyleStatusMessage: base.Background(bbPanel).Foreground(bbYellow),
			StyleStatusError:   base.Background(bbPanel).Foreground(bbRed).Bold(true),
			StyleStatusInk:     base.Background(bbPanel).Foreground(bbMuted),
		},
	}

	wbSurface := tcell.NewHexColor(0xf4f4f0)
	wbPanel := tcell.NewHexColor(0xd8dbe2)
	wbInk := tcell.NewHexColor(0x2b303b)
	wbBlue := tcell.NewHexColor(0x3465a4)
	wbRed := tcell.NewHexColor(0xcc0000)

	light := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(wbInk)
	Whiteboard = Theme{
		Name:   "Whiteboard",
		IsDark: false,
		Styles: map[string]tcell.Style{
			StyleDefault:       light,
			StyleCanvas:        light.Background(wbSurface),
			StyleStatusBar:     light.Background(wbPanel),
			StyleStatusMessage: light.Background(wbPanel).Foreground(wbBlue),
			StyleStatusError:   light.Background(wbPanel).Foreground(wbRed).Bold(true),
		},
	}
}
