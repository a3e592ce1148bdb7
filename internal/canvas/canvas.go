// Package canvas implements the raster drawing surface: strokes, snapshot
// capture and asynchronous snapshot redisplay.
package canvas

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/bethropolis/slate/internal/history"
	"github.com/bethropolis/slate/internal/logger"
	"github.com/bethropolis/slate/internal/types"
)

// ErrEmptyCanvas is returned when capturing a canvas with no pixels.
var ErrEmptyCanvas = errors.New("canvas has zero size")

// Completion is delivered when an asynchronous redisplay has decoded its snapshot.
type Completion struct {
	Request history.Redisplay
	Image   image.Image
	Err     error
}

// Canvas is an RGBA drawing surface. It satisfies history.Surface.
type Canvas struct {
	mu          sync.Mutex
	img         *image.RGBA
	completions chan Completion
	encoder     png.Encoder

	closed  bool
	done    chan struct{}
	decodes sync.WaitGroup
}

var _ history.Surface = (*Canvas)(nil)

// New creates a transparent canvas of the given pixel size.
func New(width, height int) *Canvas {
	return &Canvas{
		img:         image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0))),
		completions: make(chan Completion, 16),
		encoder:     png.Encoder{CompressionLevel: png.BestSpeed},
		done:        make(chan struct{}),
	}
}

// Size returns the canvas size in pixels.
func (c *Canvas) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns a copy of the current pixels.
func (c *Canvas) Image() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := image.NewRGBA(c.img.Bounds())
	copy(out.Pix, c.img.Pix)
	return out
}

// Stroke draws a round-capped segment from one point to another.
func (c *Canvas) Stroke(from, to types.Point, b Brush) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bounds := c.img.Bounds()
	if bounds.Empty() {
		return
	}

	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	radius := b.Width() / 2
	fx, fy := float32(from.X)+0.5, float32(from.Y)+0.5
	tx, ty := float32(to.X)+0.5, float32(to.Y)+0.5
	addSegment(z, fx, fy, tx, ty, radius)
	addDisc(z, fx, fy, radius)
	addDisc(z, tx, ty, radius)

	if b.Tool == ToolEraser {
		area := image.Rect(
			int(min(fx, tx)-radius)-1, int(min(fy, ty)-radius)-1,
			int(max(fx, tx)+radius)+2, int(max(fy, ty)+radius)+2,
		).Intersect(bounds)
		mask := image.NewAlpha(bounds)
		z.DrawOp = draw.Src
		z.Draw(mask, bounds, image.Opaque, image.Point{})
		eraseLocked(c.img, mask, area)
		return
	}
	z.DrawOp = draw.Over
	z.Draw(c.img, bounds, image.NewUniform(b.Ink()), image.Point{})
}

// eraseLocked scales every pixel in area by one minus the mask coverage,
// the destination-out composite. Pixels are premultiplied, so all four
// channels scale together.
func eraseLocked(img *image.RGBA, mask *image.Alpha, area image.Rectangle) {
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			m := uint32(mask.AlphaAt(x, y).A)
			if m == 0 {
				continue
			}
			keep := 0xff - m
			i := img.PixOffset(x, y)
			px := img.Pix[i : i+4 : i+4]
			for j := range px {
				px[j] = uint8(uint32(px[j]) * keep / 0xff)
			}
		}
	}
}

// addSegment adds the body of a thick line. Every path is wound the same way
// so overlapping coverage accumulates instead of cancelling.
func addSegment(z *vector.Rasterizer, ax, ay, bx, by, r float32) {
	dx, dy := bx-ax, by-ay
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length < 1e-3 {
		return
	}
	nx, ny := -dy/length*r, dx/length*r
	z.MoveTo(ax-nx, ay-ny)
	z.LineTo(bx-nx, by-ny)
	z.LineTo(bx+nx, by+ny)
	z.LineTo(ax+nx, ay+ny)
	z.ClosePath()
}

func addDisc(z *vector.Rasterizer, cx, cy, r float32) {
	steps := int(r * 4)
	if steps < 12 {
		steps = 12
	}
	z.MoveTo(cx+r, cy)
	for i := 1; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		z.LineTo(cx+r*float32(math.Cos(a)), cy+r*float32(math.Sin(a)))
	}
	z.ClosePath()
}

func (c *Canvas) clearLocked() {
	draw.Draw(c.img, c.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// RenderBlank clears every pixel.
func (c *Canvas) RenderBlank() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

// RenderSnapshot clears the canvas and decodes the snapshot in the background.
// The result arrives on Completions; the caller decides whether to Present it.
// After Close the canvas is only cleared.
func (c *Canvas) RenderSnapshot(req history.Redisplay) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
	if c.closed {
		return
	}

	c.decodes.Add(1)
	go func() {
		defer c.decodes.Done()
		img, err := Decode(req.Snapshot)
		if err != nil {
			logger.Warnf("Canvas: %v", err)
		}
		select {
		case c.completions <- Completion{Request: req, Image: img, Err: err}:
		case <-c.done:
			logger.DebugTagf("canvas", "Canvas: Dropped redisplay of %s after close", req.Snapshot.Short())
		}
	}()
}

// Close stops delivering completions and waits for pending decodes to exit.
// Safe to call more than once.
func (c *Canvas) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.done)
	c.mu.Unlock()

	c.decodes.Wait()
}

// Completions delivers decoded redisplay requests.
func (c *Canvas) Completions() <-chan Completion {
	return c.completions
}

// Present replaces the pixels with img, anchored at the origin without scaling.
func (c *Canvas) Present(img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
	if img == nil {
		return
	}
	draw.Draw(c.img, c.img.Bounds(), img, img.Bounds().Min, draw.Over)
}

// CaptureSnapshot encodes the pixels as PNG.
func (c *Canvas) CaptureSnapshot() (types.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b := c.img.Bounds()
	if b.Empty() {
		return types.Snapshot{}, ErrEmptyCanvas
	}
	var buf bytes.Buffer
	if err := c.encoder.Encode(&buf, c.img); err != nil {
		return types.Snapshot{}, fmt.Errorf("encode snapshot: %w", err)
	}
	return types.NewSnapshot(buf.Bytes(), b.Dx(), b.Dy()), nil
}

// Resize changes the canvas size, keeping the existing pixels at the origin.
func (c *Canvas) Resize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	width, height = max(width, 0), max(height, 0)
	old := c.img
	if old.Bounds().Dx() == width && old.Bounds().Dy() == height {
		return
	}
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(c.img, c.img.Bounds(), old, image.Point{}, draw.Src)
	logger.Debugf("Canvas: Resized %dx%d -> %dx%d", old.Bounds().Dx(), old.Bounds().Dy(), width, height)
}

// Decode turns a snapshot back into an image. The blank snapshot decodes to nil.
func Decode(s types.Snapshot) (image.Image, error) {
	if s.IsBlank() {
		return nil, nil
	}
	img, err := png.Decode(bytes.NewReader(s.Data))
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", s.Short(), err)
	}
	return img, nil
}
