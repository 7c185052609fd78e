// Package screen holds the current screenshot shown to the user.
package screen

import (
	"image"
	"sync"

	"github.com/mj1618/scoopick/internal/model"
)

// Image is the current screenshot. The zero value is the empty state: it has
// size (0, 0) and every pixel lookup misses.
type Image struct {
	mu  sync.RWMutex
	img image.Image
}

// NewImage wraps img. A nil img gives the empty state.
func NewImage(img image.Image) *Image {
	return &Image{img: img}
}

// Replace swaps in a new screenshot wholesale.
func (s *Image) Replace(img image.Image) {
	s.mu.Lock()
	s.img = img
	s.mu.Unlock()
}

// Get returns the underlying image, or nil when empty.
func (s *Image) Get() image.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.img
}

// IsEmpty reports whether no screenshot has been captured yet.
func (s *Image) IsEmpty() bool {
	w, h := s.Size()
	return w == 0 || h == 0
}

// Size returns the pixel dimensions, (0, 0) when empty.
func (s *Image) Size() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Dimensions is Size as an image.Point.
func (s *Image) Dimensions() image.Point {
	w, h := s.Size()
	return image.Pt(w, h)
}

// PixelAt returns the color at (x, y) relative to the image origin.
func (s *Image) PixelAt(x, y int) (model.Color, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.img == nil {
		return model.Color{}, false
	}
	b := s.img.Bounds()
	p := image.Pt(b.Min.X+x, b.Min.Y+y)
	if x < 0 || y < 0 || !p.In(b) {
		return model.Color{}, false
	}
	return model.ColorOf(s.img.At(p.X, p.Y)), true
}

// PixelOf samples the color under a point, missing for unset points.
func PixelOf(img image.Image, p model.Point) (model.Color, bool) {
	return NewImage(img).PixelAt(p.X, p.Y)
}
