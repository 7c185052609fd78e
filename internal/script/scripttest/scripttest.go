// Package scripttest provides recording input and scripted pixel fakes for
// script tests.
package scripttest

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/mj1618/scoopick/internal/model"
	"github.com/mj1618/scoopick/internal/platform"
)

// Input records every synthetic input call as a short string such as
// "click 10,20 left x1", "move 1,2", "key enter", "type hello".
type Input struct {
	mu      sync.Mutex
	Actions []string
	// OnAction runs after each recorded action; tests use it to change pixels.
	OnAction func(action string)
}

func (in *Input) record(a string) {
	in.mu.Lock()
	in.Actions = append(in.Actions, a)
	hook := in.OnAction
	in.mu.Unlock()
	if hook != nil {
		hook(a)
	}
}

// Recorded returns a copy of the recorded actions.
func (in *Input) Recorded() []string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]string(nil), in.Actions...)
}

func (in *Input) MoveMouse(x, y int) error {
	in.record(fmt.Sprintf("move %d,%d", x, y))
	return nil
}

func (in *Input) Click(x, y int, button platform.MouseButton, count int) error {
	in.record(fmt.Sprintf("click %d,%d %s x%d", x, y, button, count))
	return nil
}

func (in *Input) KeyTap(key string, modifiers ...string) error {
	if len(modifiers) > 0 {
		in.record(fmt.Sprintf("key %s+%v", key, modifiers))
		return nil
	}
	in.record("key " + key)
	return nil
}

func (in *Input) TypeText(text string, _ time.Duration) error {
	in.record("type " + text)
	return nil
}

// Pixels serves colors from a map keyed by position. Unknown positions are
// black.
type Pixels struct {
	mu     sync.Mutex
	Colors map[image.Point]model.Color
	Reads  int
}

// NewPixels returns an empty pixel fake.
func NewPixels() *Pixels {
	return &Pixels{Colors: make(map[image.Point]model.Color)}
}

// Set stores the color at (x, y).
func (p *Pixels) Set(x, y int, c model.Color) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Colors[image.Pt(x, y)] = c
}

func (p *Pixels) PixelColor(x, y int) (model.Color, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Reads++
	return p.Colors[image.Pt(x, y)], nil
}

// Grid builds points named prefix+n laid out on a rows x cols grid with the
// given spacing, idx in row-major order.
func Grid(prefix string, rows, cols, spacing int) []model.Point {
	pts := make([]model.Point, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := len(pts)
			pts = append(pts, model.Point{
				Idx:   i,
				Name:  fmt.Sprintf("%s%d", prefix, i+1),
				X:     (c + 1) * spacing,
				Y:     (r + 1) * spacing,
				Color: model.DefaultColor,
			})
		}
	}
	return pts
}

// Sleeper records requested sleeps without waiting. It honours cancellation.
type Sleeper struct {
	mu    sync.Mutex
	Total time.Duration
	Calls int
}

// Sleep satisfies script.Deps.Sleep.
func (s *Sleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.Total += d
	s.Calls++
	s.mu.Unlock()
	return ctx.Err()
}
