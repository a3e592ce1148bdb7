// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"sync"
	"time"

	"github.com/bethropolis/slate/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// swatch is drawn in the active ink color.
const swatch = '●'

// Config defines the appearance and behavior of the status bar.
type Config struct {
	StyleDefault   tcell.Style
	StyleMessage   tcell.Style
	StyleError     tcell.Style
	MessageTimeout time.Duration
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{
		StyleDefault:   tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorBlue),
		StyleMessage:   tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue).Bold(true),
		StyleError:     tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorBlue).Bold(true),
		MessageTimeout: 4 * time.Second,
	}
}

// ConfigFromTheme takes the status bar styles from a theme.
func ConfigFromTheme(th *theme.Theme, timeout time.Duration) Config {
	return Config{
		StyleDefault:   th.GetStyle(theme.StyleStatusBar),
		StyleMessage:   th.GetStyle(theme.StyleStatusMessage),
		StyleError:     th.GetStyle(theme.StyleStatusError),
		MessageTimeout: timeout,
	}
}

// State is the board information shown when no message is active.
type State struct {
	PageNumber int // 1-based
	PageCount  int
	Tool       string
	Ink        string
	InkColor   tcell.Color
	Size       int
	Undo, Redo int
}

// StatusBar represents the UI component for the status line.
type StatusBar struct {
	config Config
	mu     sync.RWMutex

	state State

	tempMessage     string
	tempMessageTime time.Time
	tempIsError     bool
}

// New creates a new StatusBar with the given configuration.
func New(config Config) *StatusBar {
	return &StatusBar{
		config: config,
		state:  State{PageNumber: 1, PageCount: 1},
	}
}

// SetConfig replaces the styles, e.g. after a theme switch.
func (sb *StatusBar) SetConfig(config Config) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.config = config
}

// SetState updates the board information.
func (sb *StatusBar) SetState(s State) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.state = s
}

// SetTemporaryMessage displays a message for the configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.setMessage(fmt.Sprintf(format, args...), false)
}

// SetErrorMessage displays an error for the configured duration.
func (sb *StatusBar) SetErrorMessage(format string, args ...interface{}) {
	sb.setMessage(fmt.Sprintf(format, args...), true)
}

func (sb *StatusBar) setMessage(msg string, isError bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = msg
	sb.tempMessageTime = time.Now()
	sb.tempIsError = isError
}

// ResetTemporaryMessage clears any temporary message being displayed.
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
	sb.tempIsError = false
}

// leftText is the slide indicator followed by the active tool. Caller holds the lock.
func (sb *StatusBar) leftText() string {
	s := sb.state
	text := fmt.Sprintf(" Slide: %d", s.PageNumber)
	if s.PageCount > 1 {
		text += fmt.Sprintf("/%d", s.PageCount)
	}
	return fmt.Sprintf("%s │ %s %d │ %s ", text, s.Tool, s.Size, s.Ink)
}

func (sb *StatusBar) rightText() string {
	return fmt.Sprintf("undo %d  redo %d ", sb.state.Undo, sb.state.Redo)
}

// Draw renders the status bar on the last screen row.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1

	sb.mu.Lock()
	active := !sb.tempMessageTime.IsZero() && time.Since(sb.tempMessageTime) <= sb.config.MessageTimeout
	if !sb.tempMessageTime.IsZero() && !active {
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
		sb.tempIsError = false
	}

	style := sb.config.StyleDefault
	var left, right string
	showSwatch := false
	switch {
	case active && sb.tempIsError:
		style = sb.config.StyleError
		left = " " + sb.tempMessage
	case active:
		style = sb.config.StyleMessage
		left = " " + sb.tempMessage
	default:
		left = sb.leftText()
		right = sb.rightText()
		showSwatch = true
	}
	inkColor := sb.state.InkColor
	sb.mu.Unlock()

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}

	x := drawText(screen, 0, y, width, left, style)
	if showSwatch && x < width {
		screen.SetContent(x, y, swatch, nil, style.Foreground(inkColor))
		x++
	}
	if right != "" {
		rx := width - uniseg.StringWidth(right)
		if rx > x {
			drawText(screen, rx, y, width, right, style)
		}
	}
}

// drawText draws text from column x and returns the column after it.
func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusterWidth := gr.Width()
		if x+clusterWidth > width {
			break
		}
		runes := gr.Runes()
		screen.SetContent(x, y, runes[0], runes[1:], style)
		x += clusterWidth
	}
	return x
}
