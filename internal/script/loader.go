package script

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"plugin"
	"strings"
	"sync"

	"github.com/mj1618/scoopick/internal/model"
)

// Source tells where a loaded script came from.
type Source string

const (
	SourceBuiltin Source = "builtin"
	SourcePlugin  Source = "plugin"
	SourceFile    Source = "file"
)

// Loaded is a script the host is holding.
type Loaded struct {
	Name   string `yaml:"name"   json:"name"`
	Source Source `yaml:"source" json:"source"`
	Script Script `yaml:"-"      json:"-"`
}

// LoaderFunc builds a script from a file.
type LoaderFunc func(path string, d Deps) (Script, error)

var (
	loadersMu sync.RWMutex
	loaders   = map[string]LoaderFunc{".so": loadPlugin}
)

// RegisterLoader binds a file extension (with dot) to a loader.
func RegisterLoader(ext string, fn LoaderFunc) {
	loadersMu.Lock()
	defer loadersMu.Unlock()
	loaders[strings.ToLower(ext)] = fn
}

func loaderFor(path string) (LoaderFunc, bool) {
	loadersMu.RLock()
	defer loadersMu.RUnlock()
	fn, ok := loaders[strings.ToLower(filepath.Ext(path))]
	return fn, ok
}

// Resolve turns ref into a script. A registered built-in name wins; anything
// else is treated as a path and dispatched on its extension.
func Resolve(ref string, d Deps) (Loaded, error) {
	if e, ok := Lookup(ref); ok {
		s, err := e.Build(d)
		if err != nil {
			return Loaded{}, fmt.Errorf("build script %s: %w", ref, err)
		}
		return Loaded{Name: e.Name, Source: SourceBuiltin, Script: s}, nil
	}
	fn, ok := loaderFor(ref)
	if !ok {
		return Loaded{}, fmt.Errorf("unknown script %q: not a built-in and no loader for %q (built-ins: %s)",
			ref, filepath.Ext(ref), strings.Join(Names(), ", "))
	}
	s, err := fn(ref, d)
	if err != nil {
		return Loaded{}, err
	}
	src := SourceFile
	if strings.EqualFold(filepath.Ext(ref), ".so") {
		src = SourcePlugin
	}
	name := strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref))
	return Loaded{Name: name, Source: src, Script: s}, nil
}

// loadPlugin opens a Go plugin built with -buildmode=plugin that exports
//
//	func Run(ctx context.Context, points []model.Point, capture script.CaptureFunc) error
//
// model and script are internal packages, so the plugin has to be built from
// a package inside this module, e.g. go build -buildmode=plugin ./myscripts/foo.
func loadPlugin(path string, _ Deps) (Script, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plugin %s: %w", path, err)
	}
	sym, err := p.Lookup("Run")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoEntryPoint, path, err)
	}
	return entryPoint(path, sym)
}

// entryPoint adapts a looked-up Run symbol to a Script.
func entryPoint(path string, sym any) (Script, error) {
	switch fn := sym.(type) {
	case func(context.Context, []model.Point, CaptureFunc) error:
		return Func(fn), nil
	case func(context.Context, []model.Point, func() (image.Image, error)) error:
		return Func(func(ctx context.Context, pts []model.Point, capture CaptureFunc) error {
			return fn(ctx, pts, capture)
		}), nil
	default:
		return nil, fmt.Errorf("%w: %s: Run has type %T", ErrNoEntryPoint, path, sym)
	}
}
