// Package gui is the desktop shell: a screenshot view to pick points on, the
// points list and buttons to capture, load, save and run scripts.
package gui

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/mj1618/scoopick/internal/mapper"
	"github.com/mj1618/scoopick/internal/platform"
	"github.com/mj1618/scoopick/internal/points"
	"github.com/mj1618/scoopick/internal/screen"
	"github.com/mj1618/scoopick/internal/script"
	"go.uber.org/zap"
)

// Title is the main window title.
const Title = "Scoopick"

// Options configures the shell.
type Options struct {
	Width, Height float32
	// CaptureDelay is the pause between hiding the window and grabbing the screen.
	CaptureDelay time.Duration
	// PointsFile is the suggested name in the save dialog.
	PointsFile string
	Logger     *zap.Logger
}

// App is the main window and its state.
type App struct {
	ctx      context.Context
	app      fyne.App
	win      fyne.Window
	opts     Options
	log      *zap.Logger
	provider *platform.Provider
	points   *points.Collection
	screen   *screen.Image
	host     *script.Host

	view     *ScreenView
	list     *widget.List
	scripts  *widget.Select
	buttons  []*widget.Button
	listSubs []*points.Subscription
}

// New builds the main window. ctx bounds script runs.
func New(ctx context.Context, a fyne.App, provider *platform.Provider, pts *points.Collection, host *script.Host, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	g := &App{
		ctx:      ctx,
		app:      a,
		win:      a.NewWindow(Title),
		opts:     opts,
		log:      opts.Logger.Named("gui"),
		provider: provider,
		points:   pts,
		screen:   screen.NewImage(nil),
		host:     host,
	}
	g.build()
	return g
}

func (g *App) build() {
	g.view = NewScreenView(g.screen, g.points, g.pick)
	g.list, g.listSubs = newPointList(g.points)

	g.scripts = widget.NewSelect(script.Names(), func(name string) {
		if name == "" {
			return
		}
		if _, err := g.host.Load(name); err != nil {
			g.scripts.ClearSelected()
		}
	})
	g.scripts.PlaceHolder = "Built-in script"
	if l, ok := g.host.Loaded(); ok && l.Source == script.SourceBuiltin {
		g.scripts.Selected = l.Name
	}

	start := widget.NewButton("Start", g.startScript)
	update := widget.NewButton("Update screenshot", g.updateScreenshot)
	load := widget.NewButton("Load points", g.loadPoints)
	save := widget.NewButton("Save points", g.savePoints)
	loadScript := widget.NewButton("Load script", g.loadScript)
	quit := widget.NewButton("Quit", g.app.Quit)
	g.buttons = []*widget.Button{start, update, load, save, loadScript}

	side := container.NewBorder(
		widget.NewLabel("Points"),
		container.NewVBox(g.scripts, start, update, load, save, loadScript, quit),
		nil, nil,
		g.list,
	)
	split := container.NewHSplit(g.view, side)
	split.Offset = 0.75
	g.win.SetContent(split)
	g.win.Resize(fyne.NewSize(g.opts.Width, g.opts.Height))
	g.win.Canvas().SetOnTypedKey(g.typedKey)
	g.win.SetOnClosed(g.close)
}

// Window returns the main window.
func (g *App) Window() fyne.Window { return g.win }

// ShowAndRun shows the window and blocks until the app quits.
func (g *App) ShowAndRun() {
	g.win.ShowAndRun()
}

func (g *App) close() {
	g.view.Close()
	for _, s := range g.listSubs {
		s.Close()
	}
}

// pick moves every selected point to p, the unset sentinel when the tap
// landed outside the image.
func (g *App) pick(p image.Point) {
	if p == mapper.Outside {
		g.log.Debug("tap outside image")
	}
	g.points.SetSelectedPosition(p.X, p.Y)
}

func (g *App) typedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyDelete, fyne.KeyBackspace:
		g.points.ClearSelected()
	}
}

func (g *App) setBusy(busy bool) {
	for _, b := range g.buttons {
		if busy {
			b.Disable()
		} else {
			b.Enable()
		}
	}
}

// captureNow grabs the screen synchronously.
func (g *App) captureNow() (image.Image, error) {
	if g.provider == nil || g.provider.Screenshotter == nil {
		return nil, errors.New("screen capture not available on this platform")
	}
	return g.provider.Screenshotter.Capture(g.ctx, platform.CaptureOptions{})
}

// updateScreenshot hides the window, waits for it to disappear and captures.
// A failed capture keeps the previous image.
func (g *App) updateScreenshot() {
	g.setBusy(true)
	g.win.Hide()
	time.AfterFunc(g.opts.CaptureDelay, func() {
		img, err := g.captureNow()
		fyne.Do(func() {
			if err != nil {
				g.log.Error("screenshot failed", zap.Error(err))
			} else {
				g.view.SetImage(img)
				b := img.Bounds()
				g.log.Debug("screenshot updated", zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))
			}
			g.win.Show()
			g.setBusy(false)
		})
	})
}

// startScript hides the window and runs the loaded script off the UI
// goroutine with a snapshot of the points.
func (g *App) startScript() {
	if _, ok := g.host.Loaded(); !ok {
		g.log.Error("no script loaded")
		return
	}
	snapshot := g.points.Points()
	g.setBusy(true)
	g.win.Hide()
	go func() {
		_ = g.host.Start(g.ctx, snapshot, g.captureNow)
		fyne.Do(func() {
			g.win.Show()
			g.setBusy(false)
		})
	}()
}

func (g *App) loadPoints() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			g.log.Error("failed to open points file", zap.Error(err))
			return
		}
		if r == nil {
			return
		}
		defer r.Close()
		ok, err := g.points.Load(r)
		switch {
		case err != nil:
			g.log.Error("failed to load points", zap.Error(err))
		case ok:
			g.log.Info("loaded points", zap.String("file", r.URI().Name()), zap.Int("count", g.points.Len()))
		}
	}, g.win)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	d.Show()
}

func (g *App) savePoints() {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			g.log.Error("failed to create points file", zap.Error(err))
			return
		}
		if w == nil {
			return
		}
		if err := g.points.Save(w); err != nil {
			w.Close()
			g.log.Error("failed to save points", zap.Error(err))
			return
		}
		if err := w.Close(); err != nil {
			g.log.Error("failed to save points", zap.Error(err))
			return
		}
		g.log.Info("saved points", zap.String("file", w.URI().Name()))
	}, g.win)
	name := "points.json"
	if g.opts.PointsFile != "" {
		name = filepath.Base(g.opts.PointsFile)
	}
	d.SetFileName(name)
	d.Show()
}

func (g *App) loadScript() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			g.log.Error("failed to open script", zap.Error(err))
			return
		}
		if r == nil {
			return
		}
		path := r.URI().Path()
		r.Close()
		if _, err := g.host.Load(path); err == nil {
			g.scripts.ClearSelected()
		}
	}, g.win)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".so", ".yaml", ".yml"}))
	d.Show()
}
