// Package portal captures the screen through the xdg-desktop-portal
// Screenshot interface, for compositors that refuse direct grabs.
package portal

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"
	"github.com/mj1618/scoopick/internal/platform"
)

// Name identifies this backend in configuration.
const Name = "portal"

const (
	responseSignal = "org.freedesktop.portal.Request.Response"
	tokenPrefix    = "scoopick"
)

// Response codes of org.freedesktop.portal.Request.Response.
const (
	responseSuccess   uint32 = 0
	responseCancelled uint32 = 1
)

var (
	// ErrCancelled is returned when the user dismissed the portal dialog.
	ErrCancelled = errors.New("screenshot cancelled")
	// ErrTimeout is returned when the portal never answered.
	ErrTimeout = errors.New("timed out waiting for portal response")
)

func init() {
	platform.RegisterCapture(New(), 10)
}

// session is the slice of the session bus the portal flow needs.
type session interface {
	// Watch subscribes to Response signals on the request handle that a
	// request with token will get.
	Watch(token string) (<-chan *dbus.Signal, error)
	// Screenshot issues the request and returns the actual request handle.
	Screenshot(ctx context.Context, token string) (dbus.ObjectPath, error)
	Close() error
}

// Portal is the portal capture backend.
type Portal struct {
	// Timeout bounds the wait for the Response signal.
	Timeout time.Duration

	dial   func() (session, error)
	getenv func(string) string
	goos   string
}

// New returns a Portal talking to the session bus.
func New() *Portal {
	return &Portal{
		Timeout: 30 * time.Second,
		dial:    dialSession,
		getenv:  os.Getenv,
		goos:    runtime.GOOS,
	}
}

// Name implements platform.CaptureBackend.
func (p *Portal) Name() string { return Name }

// Available reports whether this is a Wayland session on Linux.
func (p *Portal) Available() bool {
	return p.goos == "linux" && p.getenv("WAYLAND_DISPLAY") != ""
}

// Capture requests a non-interactive screenshot, waits for the portal to
// write it, loads it and deletes the temporary file.
func (p *Portal) Capture(ctx context.Context, opts platform.CaptureOptions) (image.Image, error) {
	s, err := p.dial()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	defer s.Close()

	token := tokenPrefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	signals, err := s.Watch(token)
	if err != nil {
		return nil, fmt.Errorf("watch portal response: %w", err)
	}
	handle, err := s.Screenshot(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("portal screenshot request: %w", err)
	}

	uri, err := p.await(ctx, signals, handle)
	if err != nil {
		return nil, err
	}
	img, err := loadAndRemove(uri)
	if err != nil {
		return nil, err
	}
	return platform.Crop(img, opts.Region)
}

func (p *Portal) await(ctx context.Context, signals <-chan *dbus.Signal, handle dbus.ObjectPath) (string, error) {
	var timeout <-chan time.Time
	if p.Timeout > 0 {
		t := time.NewTimer(p.Timeout)
		defer t.Stop()
		timeout = t.C
	}
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timeout:
			return "", ErrTimeout
		case sig, ok := <-signals:
			if !ok {
				return "", errors.New("session bus closed before the portal answered")
			}
			if sig.Name != responseSignal || sig.Path != handle {
				continue
			}
			return parseResponse(sig)
		}
	}
}

func parseResponse(sig *dbus.Signal) (string, error) {
	if len(sig.Body) < 2 {
		return "", fmt.Errorf("malformed portal response: %v", sig.Body)
	}
	status, ok := sig.Body[0].(uint32)
	if !ok {
		return "", fmt.Errorf("malformed portal response status: %T", sig.Body[0])
	}
	switch status {
	case responseSuccess:
	case responseCancelled:
		return "", ErrCancelled
	default:
		return "", fmt.Errorf("portal screenshot failed with status %d", status)
	}
	results, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return "", fmt.Errorf("malformed portal response results: %T", sig.Body[1])
	}
	v, ok := results["uri"]
	if !ok {
		return "", errors.New("portal response has no uri")
	}
	uri, ok := v.Value().(string)
	if !ok {
		return "", fmt.Errorf("portal uri has type %T", v.Value())
	}
	return uri, nil
}

func loadAndRemove(uri string) (image.Image, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("parse screenshot uri: %w", err)
	}
	if u.Scheme != "file" {
		return nil, fmt.Errorf("unsupported screenshot uri %q", uri)
	}
	f, err := os.Open(u.Path)
	if err != nil {
		return nil, fmt.Errorf("open screenshot: %w", err)
	}
	img, _, decodeErr := image.Decode(f)
	f.Close()
	if err := os.Remove(u.Path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove screenshot: %w", err)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode screenshot: %w", decodeErr)
	}
	return img, nil
}
