package platform

import (
	"context"
	"image"
	"time"

	"github.com/mj1618/scoopick/internal/model"
)

// Inputter simulates mouse and keyboard input.
type Inputter interface {
	MoveMouse(x, y int) error
	Click(x, y int, button MouseButton, count int) error
	// KeyTap presses and releases key while holding the given modifiers.
	KeyTap(key string, modifiers ...string) error
	// TypeText types text one character at a time, pausing delay between characters.
	TypeText(text string, delay time.Duration) error
}

// PixelReader samples the live color of a screen pixel.
type PixelReader interface {
	PixelColor(x, y int) (model.Color, error)
}

// Screenshotter captures the screen.
type Screenshotter interface {
	// Capture grabs the whole primary screen, or opts.Region when set.
	Capture(ctx context.Context, opts CaptureOptions) (image.Image, error)
}

// CaptureBackend is a Screenshotter that can tell whether it works in the
// current session.
type CaptureBackend interface {
	Screenshotter
	Name() string
	Available() bool
}
