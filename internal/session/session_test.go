package session

import (
	"image/color"
	"testing"

	"github.com/bethropolis/slate/internal/canvas"
	"github.com/bethropolis/slate/internal/types"
)

var testInks = []Ink{
	{Name: "green", Color: color.RGBA{0x39, 0xff, 0x14, 0xff}},
	{Name: "red", Color: color.RGBA{0xff, 0, 0, 0xff}},
}

func TestStrokeLifecycle(t *testing.T) {
	s := New(testInks, canvas.ToolPen, 3)

	if _, ok := s.Move(types.Point{X: 5, Y: 5}); ok {
		t.Error("Move without Begin produced a segment")
	}
	if s.End() {
		t.Error("End without Begin requested a commit")
	}

	s.Begin(types.Point{X: 0, Y: 0})
	if _, ok := s.Move(types.Point{X: 1, Y: 0}); ok {
		t.Error("one pixel movement produced a segment")
	}
	seg, ok := s.Move(types.Point{X: 3, Y: 0})
	if !ok {
		t.Fatal("expected a segment")
	}
	if seg.From != (types.Point{X: 0, Y: 0}) || seg.To != (types.Point{X: 3, Y: 0}) {
		t.Errorf("segment = %+v", seg)
	}
	seg, ok = s.Move(types.Point{X: 3, Y: 4})
	if !ok || seg.From != (types.Point{X: 3, Y: 0}) {
		t.Errorf("second segment = %+v, %v", seg, ok)
	}

	if !s.End() {
		t.Error("End after a stroke should request a commit")
	}
	if s.Drawing() {
		t.Error("still drawing after End")
	}
}

func TestBrushSizeClamped(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, MinBrushSize},
		{5, 5},
		{99, MaxBrushSize},
	}
	for _, tt := range tests {
		s := New(testInks, canvas.ToolPen, tt.in)
		if s.Size() != tt.want {
			t.Errorf("New(size %d).Size() = %d, want %d", tt.in, s.Size(), tt.want)
		}
	}

	s := New(testInks, canvas.ToolPen, MaxBrushSize)
	if got := s.Grow(1); got != MaxBrushSize {
		t.Errorf("Grow past max = %d", got)
	}
	if got := s.Grow(-3); got != MaxBrushSize-3 {
		t.Errorf("Grow(-3) = %d", got)
	}
}

func TestInkSelection(t *testing.T) {
	s := New(testInks, canvas.ToolHighlight, 2)
	if s.Ink().Name != "green" {
		t.Fatalf("default ink = %s", s.Ink().Name)
	}
	if err := s.SelectInk(1); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectInk(5); err == nil {
		t.Error("SelectInk out of range should fail")
	}
	if err := s.SelectInkByName("GREEN"); err != nil {
		t.Error(err)
	}

	b := s.Brush()
	if b.Tool != canvas.ToolHighlight || b.Size != 2 || b.Color != testInks[0].Color {
		t.Errorf("Brush = %+v", b)
	}

	s.SelectInkByName("red")
	s.SetInks([]Ink{{Name: "blue"}, {Name: "red"}})
	if s.Ink().Name != "red" {
		t.Errorf("SetInks lost the active ink, now %s", s.Ink().Name)
	}
}
