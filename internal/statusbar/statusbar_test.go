package statusbar

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func rowText(s tcell.Screen, y, width int) string {
	var b strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestDrawShowsSlideAndTool(t *testing.T) {
	s := newScreen(t, 60, 3)
	sb := New(DefaultConfig())
	sb.SetState(State{PageNumber: 3, PageCount: 4, Tool: "pen", Ink: "green", InkColor: tcell.ColorGreen, Size: 3, Undo: 2, Redo: 1})

	sb.Draw(s, 60, 3)
	row := rowText(s, 2, 60)

	for _, want := range []string{"Slide: 3/4", "pen 3", "green", "undo 2  redo 1"} {
		if !strings.Contains(row, want) {
			t.Errorf("status row %q lacks %q", row, want)
		}
	}
	if !strings.ContainsRune(row, swatch) {
		t.Errorf("status row %q lacks the ink swatch", row)
	}
	if strings.TrimSpace(rowText(s, 0, 60)) != "" {
		t.Error("status bar drew outside the last row")
	}
}

func TestSinglePageOmitsCount(t *testing.T) {
	s := newScreen(t, 40, 1)
	sb := New(DefaultConfig())
	sb.SetState(State{PageNumber: 1, PageCount: 1, Tool: "eraser", Size: 5})
	sb.Draw(s, 40, 1)
	if row := rowText(s, 0, 40); !strings.Contains(row, "Slide: 1 ") {
		t.Errorf("row = %q", row)
	}
}

func TestTemporaryMessages(t *testing.T) {
	s := newScreen(t, 40, 1)
	cfg := DefaultConfig()
	sb := New(cfg)

	sb.SetErrorMessage("export failed: %s", "disk full")
	sb.Draw(s, 40, 1)
	row := rowText(s, 0, 40)
	if !strings.Contains(row, "export failed: disk full") {
		t.Errorf("row = %q", row)
	}
	if _, _, style, _ := s.GetContent(1, 0); style != cfg.StyleError {
		t.Error("error message not drawn in the error style")
	}

	sb.ResetTemporaryMessage()
	sb.Draw(s, 40, 1)
	if row := rowText(s, 0, 40); !strings.Contains(row, "Slide: 1") {
		t.Errorf("after reset row = %q", row)
	}
}

func TestMessageExpires(t *testing.T) {
	s := newScreen(t, 40, 1)
	cfg := DefaultConfig()
	cfg.MessageTimeout = time.Millisecond
	sb := New(cfg)

	sb.SetTemporaryMessage("Saved %s", "slide-1.png")
	time.Sleep(10 * time.Millisecond)
	sb.Draw(s, 40, 1)
	if row := rowText(s, 0, 40); strings.Contains(row, "Saved") {
		t.Errorf("expired message still shown: %q", row)
	}
}
