package canvas

import (
	"fmt"
	"image/color"
	"strings"
)

// Tool selects how a stroke affects the pixels under it.
type Tool int

const (
	ToolPen Tool = iota
	ToolHighlight
	ToolEraser
)

// highlightAlpha is the opacity of the highlighter ink.
const highlightAlpha = 0x88

func (t Tool) String() string {
	switch t {
	case ToolPen:
		return "pen"
	case ToolHighlight:
		return "highlight"
	case ToolEraser:
		return "eraser"
	default:
		return "unknown"
	}
}

// ParseTool maps a tool name to a Tool.
func ParseTool(name string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pen":
		return ToolPen, nil
	case "highlight", "highlighter":
		return ToolHighlight, nil
	case "eraser":
		return ToolEraser, nil
	default:
		return ToolPen, fmt.Errorf("unknown tool %q", name)
	}
}

// Brush is what a stroke is drawn with.
type Brush struct {
	Tool  Tool
	Color color.RGBA
	Size  int
}

// Width returns the stroke width in pixels for the brush's tool.
func (b Brush) Width() float32 {
	size := b.Size
	if size < 1 {
		size = 1
	}
	switch b.Tool {
	case ToolHighlight:
		return float32(size * 2)
	case ToolEraser:
		return float32(size * 4)
	default:
		return float32(size)
	}
}

// Ink returns the color actually laid down, with the highlighter's translucency applied.
// The result is premultiplied as color.RGBA requires.
func (b Brush) Ink() color.RGBA {
	if b.Tool != ToolHighlight {
		return b.Color
	}
	c := b.Color
	return color.RGBA{
		R: uint8(uint32(c.R) * highlightAlpha / 0xff),
		G: uint8(uint32(c.G) * highlightAlpha / 0xff),
		B: uint8(uint32(c.B) * highlightAlpha / 0xff),
		A: highlightAlpha,
	}
}
