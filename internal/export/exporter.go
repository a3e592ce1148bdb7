// Package export writes slides to image files and the system clipboard.
package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/atotto/clipboard"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/bethropolis/slate/internal/canvas"
	"github.com/bethropolis/slate/internal/event"
	"github.com/bethropolis/slate/internal/logger"
	"github.com/bethropolis/slate/internal/types"
)

// ErrClipboardDisabled is returned by CopyDataURL when the system clipboard is off.
var ErrClipboardDisabled = errors.New("system clipboard disabled")

const (
	FormatPNG  = "png"
	FormatJPEG = "jpg"

	dataURLPrefix = "data:image/png;base64,"
	jpegQuality   = 90
	maxParallel   = 4
)

// Options configures an Exporter.
type Options struct {
	Dir             string
	Format          string // png or jpg
	Scale           float64
	SystemClipboard bool
	// Background fills transparent pixels in formats without alpha.
	Background color.Color
}

// Exporter turns snapshots into files.
type Exporter struct {
	opts       Options
	canvasSize func() (int, int)
	events     *event.Manager
	writeText  func(string) error
}

// New creates an Exporter. canvasSize gives the size of blank slides;
// events may be nil.
func New(opts Options, canvasSize func() (int, int), events *event.Manager) *Exporter {
	if opts.Format == "" {
		opts.Format = FormatPNG
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Background == nil {
		opts.Background = color.Black
	}
	return &Exporter{
		opts:       opts,
		canvasSize: canvasSize,
		events:     events,
		writeText:  clipboard.WriteAll,
	}
}

// Options returns the exporter settings.
func (e *Exporter) Options() Options { return e.opts }

// FileName returns the file name of a slide, e.g. slide-3.png.
func FileName(pageNumber int, format string) string {
	if format == "jpeg" {
		format = FormatJPEG
	}
	return fmt.Sprintf("slide-%d.%s", pageNumber, format)
}

// Render decodes and scales a snapshot. A blank snapshot renders as a
// transparent image of the canvas size.
func (e *Exporter) Render(s types.Snapshot) (image.Image, error) {
	img, err := canvas.Decode(s)
	if err != nil {
		return nil, err
	}
	if img == nil {
		w, h := 1, 1
		if e.canvasSize != nil {
			w, h = e.canvasSize()
		}
		img = image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	}
	return scale(img, e.opts.Scale), nil
}

func scale(img image.Image, factor float64) image.Image {
	if factor == 1 {
		return img
	}
	b := img.Bounds()
	w := max(int(float64(b.Dx())*factor), 1)
	h := max(int(float64(b.Dy())*factor), 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// Encode writes img in the given format. JPEG output is flattened onto bg.
func Encode(w io.Writer, img image.Image, format string, bg color.Color) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG, "jpeg":
		flat := image.NewRGBA(img.Bounds())
		draw.Draw(flat, flat.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
		draw.Draw(flat, flat.Bounds(), img, img.Bounds().Min, draw.Over)
		return jpeg.Encode(w, flat, &jpeg.Options{Quality: jpegQuality})
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// Slide writes one slide into the export directory and returns its path.
func (e *Exporter) Slide(s types.Snapshot, pageNumber int) (string, error) {
	img, err := e.Render(s)
	if err != nil {
		return "", fmt.Errorf("render slide %d: %w", pageNumber, err)
	}
	if err := os.MkdirAll(e.opts.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(e.opts.Dir, FileName(pageNumber, e.opts.Format))
	var buf bytes.Buffer
	if err := Encode(&buf, img, e.opts.Format, e.opts.Background); err != nil {
		return "", fmt.Errorf("encode slide %d: %w", pageNumber, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write slide %d: %w", pageNumber, err)
	}

	logger.DebugTagf("export", "Export: Slide %d (%s) -> %s", pageNumber, s.Short(), path)
	if e.events != nil {
		e.events.Dispatch(event.TypeSlideExported, event.SlideExportedData{PageNumber: pageNumber, Path: path})
	}
	return path, nil
}

// All exports every slide in parallel. snapshots is keyed by 0-based page
// index. The written paths are returned in page order.
func (e *Exporter) All(ctx context.Context, snapshots map[int]types.Snapshot) ([]string, error) {
	indexes := make([]int, 0, len(snapshots))
	for idx := range snapshots {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	paths := make([]string, len(indexes))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, idx := range indexes {
		i, idx := i, idx
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			path, err := e.Slide(snapshots[idx], idx+1)
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("export all slides: %w", err)
	}
	logger.Infof("Export: Wrote %d slides to %s", len(paths), e.opts.Dir)
	return paths, nil
}

// DataURL encodes a snapshot as a PNG data URL.
func (e *Exporter) DataURL(s types.Snapshot) (string, error) {
	img, err := e.Render(s)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode data url: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// CopyDataURL puts the snapshot on the system clipboard as a PNG data URL.
func (e *Exporter) CopyDataURL(s types.Snapshot) error {
	if !e.opts.SystemClipboard {
		return ErrClipboardDisabled
	}
	url, err := e.DataURL(s)
	if err != nil {
		return err
	}
	if err := e.writeText(url); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	logger.DebugTagf("export", "Export: Copied %s to clipboard (%d bytes)", s.Short(), len(url))
	return nil
}
