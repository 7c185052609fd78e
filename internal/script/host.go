package script

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime/debug"
	"sync"

	"github.com/mj1618/scoopick/internal/model"
	"go.uber.org/zap"
)

// Host holds at most one loaded script and runs it on demand.
type Host struct {
	deps Deps
	log  *zap.Logger

	mu      sync.Mutex
	loaded  *Loaded
	running bool
}

// NewHost returns a host with nothing loaded.
func NewHost(d Deps) *Host {
	return &Host{deps: d, log: d.Log()}
}

// Load resolves ref and makes it the current script. On failure the
// previously loaded script stays in place.
func (h *Host) Load(ref string) (Loaded, error) {
	l, err := Resolve(ref, h.deps)
	if err != nil {
		h.log.Error("failed to load script", zap.String("script", ref), zap.Error(err))
		return Loaded{}, err
	}
	h.Set(l)
	h.log.Info("loaded script", zap.String("script", l.Name), zap.String("source", string(l.Source)))
	return l, nil
}

// Set replaces the current script.
func (h *Host) Set(l Loaded) {
	h.mu.Lock()
	h.loaded = &l
	h.mu.Unlock()
}

// Unload drops the current script.
func (h *Host) Unload() {
	h.mu.Lock()
	h.loaded = nil
	h.mu.Unlock()
}

// Loaded returns the current script, if any.
func (h *Host) Loaded() (Loaded, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.loaded == nil {
		return Loaded{}, false
	}
	return *h.loaded, true
}

// Running reports whether a script is executing.
func (h *Host) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

// Start runs the loaded script to completion on the calling goroutine.
// points is copied before the script sees it. Failures, panics included,
// are logged and returned.
func (h *Host) Start(ctx context.Context, points []model.Point, capture CaptureFunc) (err error) {
	h.mu.Lock()
	if h.loaded == nil {
		h.mu.Unlock()
		h.log.Error("cannot start", zap.Error(ErrNotLoaded))
		return ErrNotLoaded
	}
	if h.running {
		h.mu.Unlock()
		return ErrBusy
	}
	l := *h.loaded
	h.running = true
	h.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("script %s panicked: %v", l.Name, r)
			h.log.Debug("script panic stack", zap.ByteString("stack", debug.Stack()))
		}
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
		switch {
		case err == nil:
			h.log.Info("script finished", zap.String("script", l.Name))
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			h.log.Info("script stopped", zap.String("script", l.Name))
		default:
			h.log.Error("script failed", zap.String("script", l.Name), zap.Error(err))
		}
	}()

	if capture == nil {
		capture = func() (image.Image, error) { return nil, errors.New("capture not available") }
	}
	snapshot := append([]model.Point(nil), points...)
	h.log.Info("starting script", zap.String("script", l.Name), zap.Int("points", len(snapshot)))
	return l.Script.Run(ctx, snapshot, capture)
}
