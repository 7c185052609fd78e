// Package script defines the automation script contract and the host that
// loads and runs one script at a time.
//
// Scripts come from three places: built-ins registered with Register, YAML
// step files, and Go plugins (.so) exporting a Run func matching Func. The
// plugin signature uses this package and internal/model, so a plugin must be
// built from inside the scoopick module tree.
package script

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/mj1618/scoopick/internal/model"
	"github.com/mj1618/scoopick/internal/platform"
	"go.uber.org/zap"
)

var (
	// ErrNotLoaded is returned by Host.Start when no script is loaded.
	ErrNotLoaded = errors.New("no script loaded")
	// ErrNoEntryPoint marks a unit that does not expose a usable Run.
	ErrNoEntryPoint = errors.New("script has no usable Run entry point")
	// ErrBusy is returned when a script is started while another runs.
	ErrBusy = errors.New("a script is already running")
)

// CaptureFunc grabs the screen synchronously.
type CaptureFunc func() (image.Image, error)

// Script is a unit of automation. points is a private copy of the current
// points; capture takes a fresh screenshot.
type Script interface {
	Run(ctx context.Context, points []model.Point, capture CaptureFunc) error
}

// Func adapts a function to Script.
type Func func(ctx context.Context, points []model.Point, capture CaptureFunc) error

// Run implements Script.
func (f Func) Run(ctx context.Context, points []model.Point, capture CaptureFunc) error {
	return f(ctx, points, capture)
}

// Deps are the host capabilities handed to built-in scripts.
type Deps struct {
	Input       platform.Inputter
	Pixels      platform.PixelReader
	Logger      *zap.Logger
	ActionDelay time.Duration
	TypeDelay   time.Duration
	// Sleep replaces the package Sleep in tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Wait pauses for d or until ctx is done.
func (d Deps) Wait(ctx context.Context, dur time.Duration) error {
	if d.Sleep != nil {
		return d.Sleep(ctx, dur)
	}
	return Sleep(ctx, dur)
}

// Controller returns a platform.Controller pacing input by ActionDelay. Its
// pauses end early once ctx is done.
func (d Deps) Controller(ctx context.Context) *platform.Controller {
	c := platform.NewController(d.Input, d.ActionDelay)
	c.Sleep = func(dur time.Duration) { _ = d.Wait(ctx, dur) }
	return c
}

// Log returns the logger, never nil.
func (d Deps) Log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Near reports whether two colors are closer than threshold.
func Near(a, b model.Color, threshold int) bool {
	return model.Distance(a, b) < threshold
}

// Closest returns the index of the reference color nearest to c. Ties go to
// the earlier reference.
func Closest(c model.Color, refs ...model.Color) int {
	best, bestDist := -1, 0
	for i, r := range refs {
		d := model.Distance(c, r)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
