package preview

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/aliskhannn/vr180-converter/internal/config"
)

// frameSource extracts a single frame of a video as an encoded image (e.g. PNG).
type frameSource interface {
	Frame(ctx context.Context, path string, offset time.Duration) ([]byte, error)
}

// Processor renders JPEG poster frames of finished results.
type Processor struct {
	frames   frameSource
	offset   time.Duration
	width    int
	height   int
	badge    string
	fontPath string
	quality  int
}

// New creates a new Processor reading frames from fs.
func New(fs frameSource, cfg *config.Preview) *Processor {
	return &Processor{
		frames:   fs,
		offset:   cfg.Offset,
		width:    cfg.Width,
		height:   cfg.Height,
		badge:    cfg.Badge,
		fontPath: cfg.FontPath,
		quality:  cfg.Quality,
	}
}

// Poster grabs a frame of the video, crops it to the configured size,
// draws the badge in the bottom-right corner and returns it as JPEG.
func (p *Processor) Poster(ctx context.Context, videoPath string) ([]byte, error) {
	raw, err := p.frames.Frame(ctx, videoPath, p.offset)
	if err != nil {
		return nil, fmt.Errorf("failed to extract frame: %w", err)
	}

	// Decode into an image object.
	frame, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}

	// Generate thumbnail.
	thumb := imaging.Thumbnail(frame, p.width, p.height, imaging.Lanczos)

	dc := gg.NewContextForImage(thumb)
	if p.badge != "" {
		if err := p.drawBadge(dc); err != nil {
			return nil, err
		}
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, dc.Image(), imaging.JPEG, imaging.JPEGQuality(p.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode poster: %w", err)
	}

	return buf.Bytes(), nil
}

// drawBadge writes the badge text over a dark box in the bottom-right corner.
func (p *Processor) drawBadge(dc *gg.Context) error {
	if p.fontPath != "" {
		fontSize := float64(dc.Height()) * 0.08
		if err := dc.LoadFontFace(p.fontPath, fontSize); err != nil {
			return fmt.Errorf("failed to load font: %w", err)
		}
	}

	tw, th := dc.MeasureString(p.badge)

	margin := 10.0
	pad := 4.0
	x := float64(dc.Width()) - margin
	y := float64(dc.Height()) - margin

	dc.SetColor(color.RGBA{A: 160})
	dc.DrawRectangle(x-tw-2*pad, y-th-2*pad, tw+2*pad, th+2*pad)
	dc.Fill()

	dc.SetColor(color.White)
	dc.DrawStringAnchored(p.badge, x-pad, y-pad, 1, 0)

	return nil
}
