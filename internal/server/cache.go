package server

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/mj1618/scoopick/internal/platform"
)

// CaptureCache keeps the last full-screen capture for a short TTL so that
// back-to-back tool calls share one screenshot.
type CaptureCache struct {
	mu        sync.Mutex
	img       image.Image
	timestamp time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewCaptureCache creates a new cache. A ttl of 0 disables caching.
func NewCaptureCache(ttl time.Duration) *CaptureCache {
	return &CaptureCache{ttl: ttl, now: time.Now}
}

// Capture returns the cached image if within TTL, otherwise captures fresh.
// The caller must hold the provider mutex.
func (c *CaptureCache) Capture(ctx context.Context, s platform.Screenshotter) (image.Image, error) {
	if c.ttl == 0 {
		return s.Capture(ctx, platform.CaptureOptions{})
	}

	c.mu.Lock()
	if c.img != nil && c.now().Sub(c.timestamp) < c.ttl {
		img := c.img
		c.mu.Unlock()
		return img, nil
	}
	c.mu.Unlock()

	img, err := s.Capture(ctx, platform.CaptureOptions{})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.img, c.timestamp = img, c.now()
	c.mu.Unlock()

	return img, nil
}

// Invalidate drops the cached image, typically after synthetic input.
func (c *CaptureCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.img = nil
}
