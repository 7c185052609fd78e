// Package logging is the smallest built-in script: it logs the points it
// was started with.
package logging

import (
	"context"

	"github.com/mj1618/scoopick/internal/model"
	"github.com/mj1618/scoopick/internal/script"
	"go.uber.org/zap"
)

// Name is the registry name.
const Name = "logging"

func init() {
	script.Register(Name, "log every point the script receives", 0, func(d script.Deps) (script.Script, error) {
		return New(d.Log()), nil
	})
}

// New returns the script.
func New(log *zap.Logger) script.Script {
	return script.Func(func(_ context.Context, points []model.Point, _ script.CaptureFunc) error {
		log.Info("running script with points", zap.Int("count", len(points)), zap.Stringers("points", points))
		return nil
	})
}
