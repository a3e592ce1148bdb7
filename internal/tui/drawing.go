// internal/tui/drawing.go
package tui

import (
	"image"
	"image/color"

	"github.com/bethropolis/slate/internal/logger"
	"github.com/bethropolis/slate/internal/theme"
	"github.com/bethropolis/slate/internal/types"
	"github.com/gdamore/tcell/v2"
)

// upperHalf draws the top pixel in the foreground and the bottom pixel in the background.
const upperHalf = '▀'

// PixelsPerRow is how many canvas pixel rows one terminal row shows.
const PixelsPerRow = 2

// CanvasSize returns the canvas pixel size for a screen of the given size,
// leaving statusHeight rows for the status bar.
func CanvasSize(screenWidth, screenHeight, statusHeight int) (int, int) {
	rows := screenHeight - statusHeight
	if screenWidth <= 0 || rows <= 0 {
		return 0, 0
	}
	return screenWidth, rows * PixelsPerRow
}

// CellToPixel maps a screen cell to the canvas pixel under its upper half.
func CellToPixel(c types.Cell) types.Point {
	return types.Point{X: c.Col, Y: c.Row * PixelsPerRow}
}

// InCanvas reports whether a cell lies on the canvas area.
func InCanvas(tuiManager *TUI, c types.Cell, statusHeight int) bool {
	width, height := tuiManager.Size()
	return c.Col >= 0 && c.Row >= 0 && c.Col < width && c.Row < height-statusHeight
}

// DrawCanvas paints img with half blocks. Transparent pixels show the
// theme's canvas color.
func DrawCanvas(tuiManager *TUI, img *image.RGBA, activeTheme *theme.Theme, statusHeight int) {
	if activeTheme == nil {
		logger.Warnf("DrawCanvas called with nil theme, using built-in default.")
		activeTheme = &theme.Blackboard
	}
	canvasStyle := activeTheme.GetStyle(theme.StyleCanvas)
	bg := toRGBA(activeTheme.CanvasColor())

	width, height := tuiManager.Size()
	rows := height - statusHeight
	if rows <= 0 || width <= 0 {
		return
	}

	bounds := img.Bounds()
	for y := 0; y < rows; y++ {
		for x := 0; x < width; x++ {
			top := pixelOver(img, bounds, x, y*PixelsPerRow, bg)
			bottom := pixelOver(img, bounds, x, y*PixelsPerRow+1, bg)
			style := canvasStyle.Foreground(toTcell(top)).Background(toTcell(bottom))
			tuiManager.screen.SetContent(x, y, upperHalf, nil, style)
		}
	}
}

// pixelOver composites the pixel at (x, y) onto bg. Pixels outside the image are bg.
func pixelOver(img *image.RGBA, bounds image.Rectangle, x, y int, bg color.RGBA) color.RGBA {
	p := image.Pt(bounds.Min.X+x, bounds.Min.Y+y)
	if !p.In(bounds) {
		return bg
	}
	c := img.RGBAAt(p.X, p.Y)
	if c.A == 0xff {
		return c
	}
	inv := uint32(0xff - c.A)
	return color.RGBA{
		R: uint8(uint32(c.R) + uint32(bg.R)*inv/0xff),
		G: uint8(uint32(c.G) + uint32(bg.G)*inv/0xff),
		B: uint8(uint32(c.B) + uint32(bg.B)*inv/0xff),
		A: 0xff,
	}
}

func toRGBA(c tcell.Color) color.RGBA {
	r, g, b := c.RGB()
	if r < 0 {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
}

func toTcell(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
