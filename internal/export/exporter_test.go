package export

import (
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bethropolis/slate/internal/canvas"
	"github.com/bethropolis/slate/internal/event"
	"github.com/bethropolis/slate/internal/types"
)

func drawnSnapshot(t *testing.T, w, h int) types.Snapshot {
	t.Helper()
	c := canvas.New(w, h)
	c.Stroke(types.Point{X: 1, Y: h / 2}, types.Point{X: w - 2, Y: h / 2},
		canvas.Brush{Tool: canvas.ToolPen, Color: color.RGBA{0xff, 0, 0, 0xff}, Size: 2})
	s, err := c.CaptureSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func fixedSize(w, h int) func() (int, int) {
	return func() (int, int) { return w, h }
}

func TestFileName(t *testing.T) {
	tests := []struct {
		page   int
		format string
		want   string
	}{
		{1, "png", "slide-1.png"},
		{12, "jpg", "slide-12.jpg"},
		{3, "jpeg", "slide-3.jpg"},
	}
	for _, tt := range tests {
		if got := FileName(tt.page, tt.format); got != tt.want {
			t.Errorf("FileName(%d, %q) = %q, want %q", tt.page, tt.format, got, tt.want)
		}
	}
}

func TestSlideWritesScaledPNG(t *testing.T) {
	dir := t.TempDir()
	events := event.NewManager()
	var exported []event.SlideExportedData
	events.Subscribe(event.TypeSlideExported, func(e event.Event) bool {
		exported = append(exported, e.Data.(event.SlideExportedData))
		return false
	})

	e := New(Options{Dir: dir, Format: FormatPNG, Scale: 2}, fixedSize(20, 10), events)
	path, err := e.Slide(drawnSnapshot(t, 20, 10), 2)
	if err != nil {
		t.Fatalf("Slide: %v", err)
	}
	if filepath.Base(path) != "slide-2.png" {
		t.Errorf("path = %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Errorf("exported size = %dx%d, want 40x20", b.Dx(), b.Dy())
	}
	if len(exported) != 1 || exported[0].PageNumber != 2 || exported[0].Path != path {
		t.Errorf("exported events = %+v", exported)
	}
}

func TestSlideBlankUsesCanvasSize(t *testing.T) {
	dir := t.TempDir()
	e := New(Options{Dir: dir, Format: FormatJPEG}, fixedSize(30, 12), nil)
	path, err := e.Slide(types.Snapshot{}, 1)
	if err != nil {
		t.Fatalf("Slide: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	if cfg.Width != 30 || cfg.Height != 12 {
		t.Errorf("blank export = %dx%d, want 30x12", cfg.Width, cfg.Height)
	}
}

func TestSlideDecodeError(t *testing.T) {
	e := New(Options{Dir: t.TempDir()}, fixedSize(4, 4), nil)
	if _, err := e.Slide(types.NewSnapshot([]byte("garbage"), 4, 4), 1); err == nil {
		t.Error("expected an error for a corrupt snapshot")
	}
}

func TestAllExportsEveryPageInOrder(t *testing.T) {
	dir := t.TempDir()
	e := New(Options{Dir: dir}, fixedSize(10, 6), nil)

	snaps := map[int]types.Snapshot{
		4: drawnSnapshot(t, 10, 6),
		0: drawnSnapshot(t, 10, 6),
		1: {},
	}
	paths, err := e.All(context.Background(), snaps)
	if err != nil {
		t.Fatalf("All: %v", err)
	}

	want := []string{"slide-1.png", "slide-2.png", "slide-5.png"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v", paths)
	}
	for i, p := range paths {
		if filepath.Base(p) != want[i] {
			t.Errorf("paths[%d] = %s, want %s", i, filepath.Base(p), want[i])
		}
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing export: %v", err)
		}
	}
}

func TestAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := New(Options{Dir: t.TempDir()}, fixedSize(4, 4), nil)
	if _, err := e.All(ctx, map[int]types.Snapshot{0: {}}); !errors.Is(err, context.Canceled) {
		t.Errorf("All with canceled context = %v, want context.Canceled", err)
	}
}

func TestCopyDataURL(t *testing.T) {
	snap := drawnSnapshot(t, 8, 8)

	disabled := New(Options{SystemClipboard: false}, fixedSize(8, 8), nil)
	if err := disabled.CopyDataURL(snap); !errors.Is(err, ErrClipboardDisabled) {
		t.Errorf("CopyDataURL with clipboard off = %v", err)
	}

	e := New(Options{SystemClipboard: true}, fixedSize(8, 8), nil)
	var copied string
	e.writeText = func(s string) error {
		copied = s
		return nil
	}
	if err := e.CopyDataURL(snap); err != nil {
		t.Fatalf("CopyDataURL: %v", err)
	}
	if !strings.HasPrefix(copied, dataURLPrefix) {
		t.Fatalf("clipboard text %.30q lacks the data URL prefix", copied)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(copied, dataURLPrefix))
	if err != nil {
		t.Fatalf("payload is not base64: %v", err)
	}
	img, err := png.Decode(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("payload is not a PNG: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 8, 8) {
		t.Errorf("payload bounds = %v", img.Bounds())
	}
}
