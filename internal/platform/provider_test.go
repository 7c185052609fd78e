package platform

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/mj1618/scoopick/internal/model"
)

type fakeBackend struct {
	name      string
	available bool
}

func (f *fakeBackend) Name() string    { return f.name }
func (f *fakeBackend) Available() bool { return f.available }
func (f *fakeBackend) Capture(ctx context.Context, opts CaptureOptions) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

type nopInput struct{}

func (nopInput) MoveMouse(x, y int) error                        { return nil }
func (nopInput) Click(x, y int, b MouseButton, count int) error  { return nil }
func (nopInput) KeyTap(key string, modifiers ...string) error    { return nil }
func (nopInput) TypeText(text string, delay time.Duration) error { return nil }
func (nopInput) PixelColor(x, y int) (model.Color, error)        { return model.Color{}, nil }

func withBackends(t *testing.T, regs ...func()) {
	t.Helper()
	ClearCaptureBackends()
	for _, r := range regs {
		r()
	}
	t.Cleanup(ClearCaptureBackends)
}

func TestDetectCapture_PriorityAndAvailability(t *testing.T) {
	portal := &fakeBackend{name: "portal", available: false}
	direct := &fakeBackend{name: "direct", available: true}
	withBackends(t,
		func() { RegisterCapture(direct, 20) },
		func() { RegisterCapture(portal, 10) },
	)

	if got := CaptureNames(); len(got) != 2 || got[0] != "portal" {
		t.Fatalf("names = %v, want portal first", got)
	}

	b, err := DetectCapture(StrategyAuto)
	if err != nil {
		t.Fatal(err)
	}
	if b.Name() != "direct" {
		t.Errorf("auto picked %q, want direct while portal is unavailable", b.Name())
	}

	portal.available = true
	b, _ = DetectCapture("")
	if b.Name() != "portal" {
		t.Errorf("auto picked %q, want portal", b.Name())
	}
}

func TestDetectCapture_Named(t *testing.T) {
	withBackends(t, func() { RegisterCapture(&fakeBackend{name: "portal"}, 10) })

	if _, err := DetectCapture("portal"); !errors.Is(err, ErrNoCapture) {
		t.Errorf("unavailable named backend: got %v, want ErrNoCapture", err)
	}
	if _, err := DetectCapture("x11"); err == nil {
		t.Error("unknown strategy should fail")
	}
}

func TestDetectCapture_NoneRegistered(t *testing.T) {
	withBackends(t)
	if _, err := DetectCapture(StrategyAuto); !errors.Is(err, ErrNoCapture) {
		t.Errorf("got %v, want ErrNoCapture", err)
	}
}

func TestNewProvider_UnsupportedPlatform(t *testing.T) {
	orig := InputFunc
	InputFunc = nil
	defer func() { InputFunc = orig }()

	_, err := NewProvider(StrategyAuto)
	if err == nil {
		t.Fatal("expected error on unsupported platform")
	}
	if err != ErrUnsupported {
		t.Errorf("expected ErrUnsupported, got: %v", err)
	}
}

func TestNewProvider_WithoutCaptureBackend(t *testing.T) {
	orig := InputFunc
	InputFunc = func() (Inputter, PixelReader, error) { return nopInput{}, nopInput{}, nil }
	defer func() { InputFunc = orig }()
	withBackends(t)

	p, err := NewProvider(StrategyAuto)
	if err != nil {
		t.Fatal(err)
	}
	if p.Inputter == nil || p.Screenshotter != nil {
		t.Errorf("provider = %+v, want input only", p)
	}
}

func TestNewProvider_SelectsBackend(t *testing.T) {
	orig := InputFunc
	InputFunc = func() (Inputter, PixelReader, error) { return nopInput{}, nopInput{}, nil }
	defer func() { InputFunc = orig }()
	withBackends(t, func() { RegisterCapture(&fakeBackend{name: "direct", available: true}, 20) })

	p, err := NewProvider(StrategyAuto)
	if err != nil {
		t.Fatal(err)
	}
	if p.Capture != "direct" || p.Screenshotter == nil {
		t.Errorf("provider = %+v, want direct capture", p)
	}
}
