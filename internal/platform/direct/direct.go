// Package direct captures the primary display with a whole-screen grab.
package direct

import (
	"context"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
	"github.com/mj1618/scoopick/internal/platform"
)

// Name identifies this backend in configuration.
const Name = "direct"

func init() {
	platform.RegisterCapture(New(), 20)
}

// Grabber captures through kbinani/screenshot.
type Grabber struct {
	// Display is the index of the display to capture.
	Display int

	numDisplays func() int
	bounds      func(int) image.Rectangle
	captureRect func(image.Rectangle) (*image.RGBA, error)
}

// New returns a Grabber for the primary display.
func New() *Grabber {
	return &Grabber{
		numDisplays: screenshot.NumActiveDisplays,
		bounds:      screenshot.GetDisplayBounds,
		captureRect: screenshot.CaptureRect,
	}
}

// Name implements platform.CaptureBackend.
func (g *Grabber) Name() string { return Name }

// Available reports whether at least one display is active.
func (g *Grabber) Available() bool {
	return g.numDisplays() > g.Display
}

// Capture grabs the display, or the region of it given in opts.
func (g *Grabber) Capture(ctx context.Context, opts platform.CaptureOptions) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !g.Available() {
		return nil, fmt.Errorf("display %d is not active", g.Display)
	}
	rect := g.bounds(g.Display)
	if opts.Region != nil {
		rect = opts.Region.Rect().Add(rect.Min).Intersect(rect)
		if rect.Empty() {
			return nil, fmt.Errorf("region %v is outside display %d", *opts.Region, g.Display)
		}
	}
	img, err := g.captureRect(rect)
	if err != nil {
		return nil, fmt.Errorf("capture display %d: %w", g.Display, err)
	}
	return img, nil
}
