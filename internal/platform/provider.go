package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// Provider bundles the input and capture backends for the current session.
type Provider struct {
	Inputter      Inputter
	Pixels        PixelReader
	Screenshotter Screenshotter
	// Capture is the name of the selected capture backend.
	Capture string
}

// ErrUnsupported is returned when no input backend is compiled in.
var ErrUnsupported = fmt.Errorf("synthetic input is not supported on %s/%s", runtime.GOOS, runtime.GOARCH)

// InputFunc is set by the input backend package via init().
// See internal/platform/robot for the registration.
var InputFunc func() (Inputter, PixelReader, error)

// NewProvider returns a Provider using the capture backend chosen by strategy
// ("auto" picks the first available one).
func NewProvider(strategy string) (*Provider, error) {
	if InputFunc == nil {
		return nil, ErrUnsupported
	}
	in, px, err := InputFunc()
	if err != nil {
		return nil, err
	}
	p := &Provider{Inputter: in, Pixels: px}

	backend, err := DetectCapture(strategy)
	switch {
	case errors.Is(err, ErrNoCapture):
		// Input still works without a capture backend; capture calls fail later.
	case err != nil:
		return nil, err
	default:
		p.Screenshotter = backend
		p.Capture = backend.Name()
	}
	return p, nil
}

// NewCaptureOnly returns a Provider with only a capture backend, for commands
// that never synthesize input.
func NewCaptureOnly(strategy string) (*Provider, error) {
	backend, err := DetectCapture(strategy)
	if err != nil {
		return nil, err
	}
	return &Provider{Screenshotter: backend, Capture: backend.Name()}, nil
}
