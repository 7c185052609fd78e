package cmd

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"strconv"

	"github.com/mj1618/scoopick/internal/model"
	"github.com/mj1618/scoopick/internal/platform"
	"github.com/mj1618/scoopick/internal/platform/portal"
	"github.com/mj1618/scoopick/internal/points"
	"github.com/mj1618/scoopick/internal/script"
	"go.uber.org/zap"
)

// pointsPath is the --points flag, falling back to points.file from config.
func pointsPath() string {
	if p, _ := rootCmd.PersistentFlags().GetString("points"); p != "" {
		return p
	}
	return appConfig.Points.File
}

// openPoints loads the points file. A missing file yields the default points
// so a fresh checkout works; a file that fails validation is an error.
func openPoints() (*points.Collection, string, error) {
	path := pointsPath()
	c := points.NewDefault(points.WithLogger(appLog))
	ok, err := c.LoadFromFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		appLog.Debug("points file not found, using defaults", zap.String("path", path))
		return c, path, nil
	case err != nil:
		return nil, path, err
	case !ok:
		return nil, path, fmt.Errorf("%s is not a valid points document", path)
	}
	return c, path, nil
}

// findPoint resolves ref as an idx or, failing that, a point name.
func findPoint(c *points.Collection, ref string) (model.Point, error) {
	if idx, err := strconv.Atoi(ref); err == nil {
		return c.At(idx)
	}
	if p, ok := model.FindByName(c.Points(), ref); ok {
		return p, nil
	}
	return model.Point{}, fmt.Errorf("no point named %q", ref)
}

// newProvider selects the backends from config. Without input only a capture
// backend is required.
func newProvider(input bool) (*platform.Provider, error) {
	var (
		p   *platform.Provider
		err error
	)
	if input {
		p, err = platform.NewProvider(appConfig.Capture.Strategy)
	} else {
		p, err = platform.NewCaptureOnly(appConfig.Capture.Strategy)
	}
	if err != nil {
		return nil, err
	}
	if pb, ok := p.Screenshotter.(*portal.Portal); ok && appConfig.PortalTimeout() > 0 {
		pb.Timeout = appConfig.PortalTimeout()
	}
	appLog.Debug("platform ready", zap.String("capture", p.Capture), zap.Bool("input", p.Inputter != nil))
	return p, nil
}

// scriptDeps wires a provider into the capabilities scripts receive.
func scriptDeps(p *platform.Provider) script.Deps {
	d := script.Deps{
		Logger:      appLog.Named("script"),
		ActionDelay: appConfig.ActionDelay(),
		TypeDelay:   appConfig.TypeDelay(),
	}
	if p != nil {
		d.Input, d.Pixels = p.Inputter, p.Pixels
	}
	return d
}

// captureFunc adapts the provider's screenshot backend to a script callback.
func captureFunc(ctx context.Context, p *platform.Provider) script.CaptureFunc {
	return func() (image.Image, error) {
		if p == nil || p.Screenshotter == nil {
			return nil, platform.ErrNoCapture
		}
		return p.Screenshotter.Capture(ctx, platform.CaptureOptions{})
	}
}
