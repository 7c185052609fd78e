package steps

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/mj1618/scoopick/internal/model"
	"github.com/mj1618/scoopick/internal/platform"
	"github.com/mj1618/scoopick/internal/script"
	"go.uber.org/zap"
)

const (
	defaultThreshold    = 10
	defaultWaitTimeout  = 10 * time.Second
	defaultWaitInterval = 250 * time.Millisecond
)

// Script is a parsed step script.
type Script struct {
	Name  string
	steps []step
	deps  script.Deps
}

// Len returns the number of top-level steps.
func (s *Script) Len() int { return len(s.steps) }

// env is the state shared by the steps of one run.
type env struct {
	deps    script.Deps
	log     *zap.Logger
	ctl     *platform.Controller
	points  []model.Point
	capture script.CaptureFunc
}

// Run executes the steps in order and stops at the first error.
func (s *Script) Run(ctx context.Context, points []model.Point, capture script.CaptureFunc) error {
	e := &env{
		deps:    s.deps,
		log:     s.deps.Log().With(zap.String("script", s.Name)),
		ctl:     s.deps.Controller(ctx),
		points:  points,
		capture: capture,
	}
	return e.runAll(ctx, s.steps, "")
}

func (e *env) runAll(ctx context.Context, steps []step, prefix string) error {
	for i, st := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		loc := fmt.Sprintf("%s%d", prefix, i+1)
		e.log.Debug("step", zap.String("step", loc), zap.String("action", st.Action))
		if err := e.executeStep(ctx, st, loc); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("step %s (%s): %w", loc, st.Action, err)
		}
	}
	return nil
}

func (e *env) executeStep(ctx context.Context, st step, loc string) error {
	switch st.Action {
	case "click":
		return e.executeClick(st.Params)
	case "move":
		return e.executeMove(st.Params)
	case "type":
		return e.executeType(st.Params)
	case "key":
		return e.executeKey(st.Params)
	case "sleep":
		return e.deps.Wait(ctx, time.Duration(intParam(st.Params, "ms", 0))*time.Millisecond)
	case "wait-color":
		return e.executeWaitColor(ctx, st.Params)
	case "if-color":
		return e.executeIfColor(ctx, st, loc)
	case "capture":
		return e.executeCapture(st.Params)
	case "repeat":
		return e.executeRepeat(ctx, st, loc)
	case "log":
		e.log.Info(stringParam(st.Params, "message", ""), zap.String("step", loc))
		return nil
	default:
		return fmt.Errorf("unknown step type %q", st.Action)
	}
}

func (e *env) point(params map[string]interface{}) (model.Point, error) {
	p, err := resolvePoint(e.points, params["point"])
	if err != nil {
		return model.Point{}, err
	}
	if !p.IsSet() {
		return model.Point{}, fmt.Errorf("point %q has no position", p.Name)
	}
	return p, nil
}

func (e *env) executeClick(params map[string]interface{}) error {
	if e.deps.Input == nil {
		return fmt.Errorf("input not available on this platform")
	}
	p, err := e.point(params)
	if err != nil {
		return err
	}
	button, err := platform.ParseMouseButton(stringParam(params, "button", "left"))
	if err != nil {
		return err
	}
	count := intParam(params, "count", 1)
	if boolParam(params, "double", false) {
		count = 2
	}
	return e.ctl.ClickButtonAt(p, button, count)
}

func (e *env) executeMove(params map[string]interface{}) error {
	if e.deps.Input == nil {
		return fmt.Errorf("input not available on this platform")
	}
	p, err := e.point(params)
	if err != nil {
		return err
	}
	return e.ctl.MoveTo(p)
}

func (e *env) executeType(params map[string]interface{}) error {
	if e.deps.Input == nil {
		return fmt.Errorf("input not available on this platform")
	}
	text := stringParam(params, "text", "")
	delay := e.deps.TypeDelay
	if ms := intParam(params, "delay", -1); ms >= 0 {
		delay = time.Duration(ms) * time.Millisecond
	}
	if !boolParam(params, "enter", true) {
		return e.deps.Input.TypeText(text, delay)
	}
	return e.ctl.TypeText(text, delay)
}

func (e *env) executeKey(params map[string]interface{}) error {
	if e.deps.Input == nil {
		return fmt.Errorf("input not available on this platform")
	}
	return e.ctl.Tap(stringParam(params, "key", ""), stringsParam(params, "modifiers")...)
}

func (e *env) sample(params map[string]interface{}) (model.Color, model.Color, error) {
	if e.deps.Pixels == nil {
		return model.Color{}, model.Color{}, fmt.Errorf("pixel reads not available on this platform")
	}
	p, err := e.point(params)
	if err != nil {
		return model.Color{}, model.Color{}, err
	}
	want, err := colorParam(params, "color")
	if err != nil {
		return model.Color{}, model.Color{}, err
	}
	got, err := e.deps.Pixels.PixelColor(p.X, p.Y)
	return got, want, err
}

func (e *env) executeWaitColor(ctx context.Context, params map[string]interface{}) error {
	threshold := intParam(params, "threshold", defaultThreshold)
	timeout := msParam(params, "timeout", defaultWaitTimeout)
	interval := msParam(params, "interval", defaultWaitInterval)

	var waited time.Duration
	for {
		got, want, err := e.sample(params)
		if err != nil {
			return err
		}
		if script.Near(got, want, threshold) {
			return nil
		}
		if waited >= timeout {
			return fmt.Errorf("timed out after %s waiting for %s (last %s)", timeout, want, got)
		}
		if err := e.deps.Wait(ctx, interval); err != nil {
			return err
		}
		waited += interval
	}
}

func (e *env) executeIfColor(ctx context.Context, st step, loc string) error {
	got, want, err := e.sample(st.Params)
	if err != nil {
		return err
	}
	if script.Near(got, want, intParam(st.Params, "threshold", defaultThreshold)) {
		return e.runAll(ctx, st.Then, loc+".then.")
	}
	if len(st.Else) > 0 {
		return e.runAll(ctx, st.Else, loc+".else.")
	}
	return nil
}

func (e *env) executeCapture(params map[string]interface{}) error {
	if e.capture == nil {
		return fmt.Errorf("capture not available")
	}
	img, err := e.capture()
	if err != nil {
		return err
	}
	if path := stringParam(params, "save", ""); path != "" {
		return savePNG(path, img)
	}
	e.log.Info("captured screen", zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	return nil
}

// executeRepeat runs the body times times, or until the context ends when
// times is 0.
func (e *env) executeRepeat(ctx context.Context, st step, loc string) error {
	times := intParam(st.Params, "times", 0)
	for i := 0; times == 0 || i < times; i++ {
		if err := e.runAll(ctx, st.Body, fmt.Sprintf("%s.%d.", loc, i+1)); err != nil {
			return err
		}
	}
	return nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return f.Close()
}
