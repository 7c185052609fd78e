// Package points holds the ordered, selectable collection of recorded points.
package points

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mj1618/scoopick/internal/model"
	"go.uber.org/zap"
)

// ErrIndexOutOfRange is returned when an idx does not address a point.
var ErrIndexOutOfRange = errors.New("point index out of range")

// DefaultPoints is the starter set shown before any file is loaded.
var DefaultPoints = []model.Point{
	{Idx: 0, Name: "Point 1", X: model.Unset, Y: model.Unset, Color: model.RGB(0, 255, 0)},
	{Idx: 1, Name: "Point 2", X: model.Unset, Y: model.Unset, Color: model.RGB(255, 0, 0)},
	{Idx: 2, Name: "Point 3", X: model.Unset, Y: model.Unset, Color: model.RGB(0, 0, 255)},
	{Idx: 3, Name: "Point 4", X: model.Unset, Y: model.Unset, Color: model.RGB(0, 255, 255)},
	{Idx: 4, Name: "Point 5", X: model.Unset, Y: model.Unset, Color: model.RGB(255, 255, 0)},
	{Idx: 5, Name: "Point 6", X: model.Unset, Y: model.Unset, Color: model.RGB(255, 0, 255)},
}

// Collection is an ordered list of points whose idx always equals its position.
// Selection is transient and never persisted.
type Collection struct {
	mu       sync.RWMutex
	points   []model.Point
	selected map[int]bool
	log      *zap.Logger

	subMu       sync.Mutex
	nextSub     uint64
	changedSubs map[uint64]func()
	pointSubs   map[uint64]func(idx int)
}

// Option configures a Collection.
type Option func(*Collection)

// WithLogger sets the logger used to report rejected loads.
func WithLogger(l *zap.Logger) Option {
	return func(c *Collection) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns an empty collection.
func New(opts ...Option) *Collection {
	c := &Collection{
		selected:    make(map[int]bool),
		log:         zap.NewNop(),
		changedSubs: make(map[uint64]func()),
		pointSubs:   make(map[uint64]func(int)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewDefault returns a collection seeded with DefaultPoints.
func NewDefault(opts ...Option) *Collection {
	c := New(opts...)
	c.points = append([]model.Point(nil), DefaultPoints...)
	return c
}

// Len returns the number of points.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.points)
}

// At returns a copy of the point at idx.
func (c *Collection) At(idx int) (model.Point, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if idx < 0 || idx >= len(c.points) {
		return model.Point{}, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, idx, len(c.points))
	}
	return c.points[idx], nil
}

// Points returns a snapshot copy of all points in idx order.
func (c *Collection) Points() []model.Point {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Point(nil), c.points...)
}

// Add appends a copy of p with the next idx and returns that idx.
func (c *Collection) Add(p model.Point) int {
	c.mu.Lock()
	p.Idx = len(c.points)
	c.points = append(c.points, p)
	c.mu.Unlock()

	c.notifyChanged()
	return p.Idx
}

// Remove deletes the given points (matched by idx) and re-indexes the rest
// so idx stays dense. Selected points that survive keep their selection.
func (c *Collection) Remove(pts ...model.Point) {
	c.mu.Lock()
	drop := make(map[int]bool, len(pts))
	for _, p := range pts {
		drop[p.Idx] = true
	}
	kept := make([]model.Point, 0, len(c.points))
	selected := make(map[int]bool, len(c.selected))
	for _, p := range c.points {
		if drop[p.Idx] {
			continue
		}
		if c.selected[p.Idx] {
			selected[len(kept)] = true
		}
		p.Idx = len(kept)
		kept = append(kept, p)
	}
	c.points = kept
	c.selected = selected
	c.mu.Unlock()

	c.notifyChanged()
}

// RemoveSelected removes every selected point.
func (c *Collection) RemoveSelected() {
	c.Remove(c.Selected()...)
}

// UpdatePosition sets only the coordinates of the point at idx.
func (c *Collection) UpdatePosition(idx, x, y int) error {
	c.mu.Lock()
	if idx < 0 || idx >= len(c.points) {
		n := len(c.points)
		c.mu.Unlock()
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, idx, n)
	}
	c.points[idx].X = x
	c.points[idx].Y = y
	c.mu.Unlock()

	c.notifyPoint(idx)
	return nil
}

// UpdateFields replaces every field of the point at p.Idx with the fields of p.
func (c *Collection) UpdateFields(p model.Point) error {
	c.mu.Lock()
	if p.Idx < 0 || p.Idx >= len(c.points) {
		n := len(c.points)
		c.mu.Unlock()
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, p.Idx, n)
	}
	c.points[p.Idx] = p
	c.mu.Unlock()

	c.notifyPoint(p.Idx)
	return nil
}

// SetSelectedPosition moves every selected point to (x, y).
func (c *Collection) SetSelectedPosition(x, y int) {
	for _, p := range c.Selected() {
		// Selection only references live points, so idx is in range.
		_ = c.UpdatePosition(p.Idx, x, y)
	}
}

// ClearSelected resets the position of every selected point.
func (c *Collection) ClearSelected() {
	c.SetSelectedPosition(model.Unset, model.Unset)
}

// Select replaces the selection. Indices out of range are ignored.
func (c *Collection) Select(idx ...int) {
	c.mu.Lock()
	c.selected = make(map[int]bool, len(idx))
	for _, i := range idx {
		if i >= 0 && i < len(c.points) {
			c.selected[i] = true
		}
	}
	c.mu.Unlock()
}

// Toggle adds idx to or removes it from the selection.
func (c *Collection) Toggle(idx int, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx < 0 || idx >= len(c.points) {
		return
	}
	if on {
		c.selected[idx] = true
	} else {
		delete(c.selected, idx)
	}
}

// IsSelected reports whether idx is selected.
func (c *Collection) IsSelected(idx int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected[idx]
}

// Selected returns copies of the selected points in idx order.
func (c *Collection) Selected() []model.Point {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx := make([]int, 0, len(c.selected))
	for i := range c.selected {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	out := make([]model.Point, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.points[i])
	}
	return out
}

// replace swaps in a new point list wholesale and clears the selection.
func (c *Collection) replace(pts []model.Point) {
	c.mu.Lock()
	c.points = pts
	c.selected = make(map[int]bool)
	c.mu.Unlock()

	c.notifyChanged()
}
