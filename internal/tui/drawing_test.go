package tui

import (
	"image"
	"image/color"
	"testing"

	"github.com/bethropolis/slate/internal/theme"
	"github.com/bethropolis/slate/internal/types"
	"github.com/gdamore/tcell/v2"
)

func newSimTUI(t *testing.T, w, h int) *TUI {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	tm, err := NewWithScreen(s, tcell.StyleDefault)
	if err != nil {
		t.Fatalf("NewWithScreen: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(tm.Close)
	return tm
}

func TestCanvasSize(t *testing.T) {
	tests := []struct {
		w, h, status int
		pw, ph       int
	}{
		{80, 24, 1, 80, 46},
		{10, 1, 1, 0, 0},
		{0, 10, 1, 0, 0},
	}
	for _, tt := range tests {
		pw, ph := CanvasSize(tt.w, tt.h, tt.status)
		if pw != tt.pw || ph != tt.ph {
			t.Errorf("CanvasSize(%d, %d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.status, pw, ph, tt.pw, tt.ph)
		}
	}
}

func TestCellToPixel(t *testing.T) {
	if got := CellToPixel(types.Cell{Col: 7, Row: 3}); got != (types.Point{X: 7, Y: 6}) {
		t.Errorf("CellToPixel = %+v", got)
	}
}

func TestDrawCanvasHalfBlocks(t *testing.T) {
	tm := newSimTUI(t, 4, 3)
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	red := color.RGBA{0xff, 0, 0, 0xff}
	img.SetRGBA(1, 0, red) // upper half of cell (1, 0)
	img.SetRGBA(2, 3, red) // lower half of cell (2, 1)

	th := &theme.Blackboard
	DrawCanvas(tm, img, th, 1)

	bg := toTcell(toRGBA(th.CanvasColor()))
	scr := tm.GetScreen()

	mainc, _, style, _ := scr.GetContent(1, 0)
	fg, back, _ := style.Decompose()
	if mainc != upperHalf || fg != toTcell(red) || back != bg {
		t.Errorf("cell (1,0) = %q fg %v bg %v", mainc, fg, back)
	}

	_, _, style, _ = scr.GetContent(2, 1)
	fg, back, _ = style.Decompose()
	if fg != bg || back != toTcell(red) {
		t.Errorf("cell (2,1) fg %v bg %v", fg, back)
	}

	// The status bar row is left alone.
	if mainc, _, _, _ := scr.GetContent(0, 2); mainc == upperHalf {
		t.Error("canvas drawn over the status bar row")
	}
}

func TestPixelOverBlendsTranslucentInk(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 0x80, A: 0x80}) // half-opaque red, premultiplied
	got := pixelOver(img, img.Bounds(), 0, 0, color.RGBA{B: 0xff, A: 0xff})
	if got.R != 0x80 || got.B < 0x7e || got.B > 0x80 || got.A != 0xff {
		t.Errorf("blend = %+v", got)
	}
	if got := pixelOver(img, img.Bounds(), 5, 5, color.RGBA{G: 1, A: 0xff}); got.G != 1 {
		t.Errorf("outside pixel = %+v, want background", got)
	}
}

func TestInCanvas(t *testing.T) {
	tm := newSimTUI(t, 10, 5)
	tests := []struct {
		cell types.Cell
		want bool
	}{
		{types.Cell{Col: 0, Row: 0}, true},
		{types.Cell{Col: 9, Row: 3}, true},
		{types.Cell{Col: 9, Row: 4}, false},
		{types.Cell{Col: 10, Row: 0}, false},
		{types.Cell{Col: -1, Row: 0}, false},
	}
	for _, tt := range tests {
		if got := InCanvas(tm, tt.cell, 1); got != tt.want {
			t.Errorf("InCanvas(%+v) = %v, want %v", tt.cell, got, tt.want)
		}
	}
}
