// Package watermark stamps repeated text across raster images.
package watermark

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/kiesman99/gridmark/pkg/layout"
)

// surface is the drawing target of a single render; *gg.Context implements it
type surface interface {
	Width() int
	Height() int
	DrawImage(img image.Image, x, y int)
	SetColor(c color.Color)
	SetFontFace(face font.Face)
	DrawStringAnchored(s string, x, y, ax, ay float64)
	EncodePNG(w io.Writer) error
}

// Compositor renders watermarked images
type Compositor struct {
	logger     *log.Logger
	newSurface func(width, height int) surface
}

// New creates a new compositor. A nil logger uses log.Default().
func New(logger *log.Logger) *Compositor {
	if logger == nil {
		logger = log.Default()
	}
	return &Compositor{
		logger: logger,
		newSurface: func(width, height int) surface {
			return gg.NewContext(width, height)
		},
	}
}

// RenderBytes decodes data and renders it. Undecodable input fails with
// KindDecode before any surface is allocated.
func (c *Compositor) RenderBytes(ctx context.Context, data []byte, opts Options) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, &Error{Kind: KindInvalidArgument, Op: "render", Err: err}
	}

	img, format, err := DecodeBytes(data)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("decoded source image", "format", format, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	return c.Render(ctx, img, opts)
}

// Render draws img onto a new surface, stamps opts.Style.Text at every
// layout position in generation order and returns the surface as PNG.
// Bytes are only returned on full success.
func (c *Compositor) Render(ctx context.Context, img image.Image, opts Options) ([]byte, error) {
	start := time.Now()

	if img == nil {
		return nil, &Error{Kind: KindInvalidArgument, Op: "render", Err: errors.New("nil image")}
	}
	if err := opts.Validate(); err != nil {
		return nil, &Error{Kind: KindInvalidArgument, Op: "render", Err: err}
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, &Error{Kind: KindInvalidArgument, Op: "render", Err: fmt.Errorf("invalid image dimensions %dx%d", width, height)}
	}
	if err := checkSize(width, height); err != nil {
		return nil, &Error{Kind: KindRender, Op: "render", Err: err}
	}

	face, err := newFace(opts.Style.Font)
	if err != nil {
		return nil, &Error{Kind: KindRender, Op: "load font", Err: err}
	}
	defer face.Close()

	dc := c.newSurface(width, height)
	dc.DrawImage(img, -bounds.Min.X, -bounds.Min.Y)

	dc.SetColor(opts.Style.Fill)
	dc.SetFontFace(face)

	positions, err := layout.Positions(float64(dc.Width()), float64(dc.Height()), opts.Count, opts.StretchFactor, opts.Rand)
	if err != nil {
		return nil, &Error{Kind: KindInvalidArgument, Op: "layout", Err: err}
	}

	ax := opts.Style.Align.anchor()
	for _, p := range positions {
		if err := ctx.Err(); err != nil {
			return nil, &Error{Kind: KindRender, Op: "draw text", Err: err}
		}
		dc.DrawStringAnchored(opts.Style.Text, p.X, p.Y, ax, 0)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, &Error{Kind: KindEncode, Op: "encode png", Err: err}
	}

	c.logger.Debug("rendered watermark",
		"width", width,
		"height", height,
		"count", len(positions),
		"bytes", buf.Len(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	return buf.Bytes(), nil
}
