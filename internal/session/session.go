// Package session holds the drawing state the input layer mutates: the
// active tool, ink and brush size, and the stroke in progress.
package session

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/bethropolis/slate/internal/canvas"
	"github.com/bethropolis/slate/internal/types"
)

const (
	MinBrushSize = 1
	MaxBrushSize = 20
)

// Ink is a named drawing color.
type Ink struct {
	Name  string
	Color color.RGBA
}

// Segment is one piece of a stroke to rasterize.
type Segment struct {
	From types.Point
	To   types.Point
}

// Session is owned by the app controller; nothing else writes to it.
type Session struct {
	tool    canvas.Tool
	inks    []Ink
	ink     int
	size    int
	drawing bool
	last    types.Point
}

// New creates a session. An empty palette falls back to white ink.
func New(inks []Ink, tool canvas.Tool, size int) *Session {
	if len(inks) == 0 {
		inks = []Ink{{Name: "white", Color: color.RGBA{0xff, 0xff, 0xff, 0xff}}}
	}
	s := &Session{
		tool: tool,
		inks: append([]Ink(nil), inks...),
	}
	s.SetSize(size)
	return s
}

// Tool returns the active tool.
func (s *Session) Tool() canvas.Tool { return s.tool }

// SetTool switches tool. An in-progress stroke continues with the new tool.
func (s *Session) SetTool(t canvas.Tool) { s.tool = t }

// Size returns the brush size.
func (s *Session) Size() int { return s.size }

// SetSize sets the brush size, clamped to the supported range.
func (s *Session) SetSize(size int) {
	s.size = min(max(size, MinBrushSize), MaxBrushSize)
}

// Grow changes the brush size by delta and returns the new size.
func (s *Session) Grow(delta int) int {
	s.SetSize(s.size + delta)
	return s.size
}

// Ink returns the active ink.
func (s *Session) Ink() Ink { return s.inks[s.ink] }

// Inks returns the available inks in selection order.
func (s *Session) Inks() []Ink { return append([]Ink(nil), s.inks...) }

// SelectInk activates the ink at position i (0-based).
func (s *Session) SelectInk(i int) error {
	if i < 0 || i >= len(s.inks) {
		return fmt.Errorf("no ink #%d (have %d)", i+1, len(s.inks))
	}
	s.ink = i
	return nil
}

// SelectInkByName activates the ink with the given name (case-insensitive).
func (s *Session) SelectInkByName(name string) error {
	for i, ink := range s.inks {
		if strings.EqualFold(ink.Name, name) {
			s.ink = i
			return nil
		}
	}
	return fmt.Errorf("unknown ink %q", name)
}

// SetInks replaces the palette, keeping the active ink by name when it still exists.
func (s *Session) SetInks(inks []Ink) {
	if len(inks) == 0 {
		return
	}
	current := s.Ink().Name
	s.inks = append([]Ink(nil), inks...)
	s.ink = 0
	_ = s.SelectInkByName(current)
}

// Brush returns the brush strokes are drawn with.
func (s *Session) Brush() canvas.Brush {
	return canvas.Brush{Tool: s.tool, Color: s.Ink().Color, Size: s.size}
}

// Drawing reports whether a stroke is in progress.
func (s *Session) Drawing() bool { return s.drawing }

// Begin starts a stroke at p.
func (s *Session) Begin(p types.Point) {
	s.drawing = true
	s.last = p
}

// Move extends the stroke to p. Movements of one pixel or less are
// accumulated until they add up to a visible segment.
func (s *Session) Move(p types.Point) (Segment, bool) {
	if !s.drawing {
		return Segment{}, false
	}
	dx, dy := float64(p.X-s.last.X), float64(p.Y-s.last.Y)
	if math.Hypot(dx, dy) <= 1 {
		return Segment{}, false
	}
	seg := Segment{From: s.last, To: p}
	s.last = p
	return seg, true
}

// End finishes the stroke. It returns true if a stroke was in progress,
// meaning the surface should be committed.
func (s *Session) End() bool {
	if !s.drawing {
		return false
	}
	s.drawing = false
	return true
}
