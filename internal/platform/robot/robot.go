// Package robot implements synthetic input and pixel sampling with robotgo.
package robot

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-vgo/robotgo"
	"github.com/mj1618/scoopick/internal/model"
	"github.com/mj1618/scoopick/internal/platform"
)

func init() {
	platform.InputFunc = func() (platform.Inputter, platform.PixelReader, error) {
		r := New()
		return r, r, nil
	}
}

// Robot drives the OS input queue through robotgo.
type Robot struct {
	// ClickInterval separates the clicks of a multi-click.
	ClickInterval time.Duration
}

// New returns a Robot with a 50ms multi-click interval.
func New() *Robot {
	return &Robot{ClickInterval: 50 * time.Millisecond}
}

// MoveMouse moves the pointer to absolute screen coordinates.
func (r *Robot) MoveMouse(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

// Click clicks button count times at (x, y).
func (r *Robot) Click(x, y int, button platform.MouseButton, count int) error {
	if count < 1 {
		return fmt.Errorf("click count must be positive, got %d", count)
	}
	robotgo.Move(x, y)
	if count == 2 {
		robotgo.Click(button.String(), true)
		return nil
	}
	for i := 0; i < count; i++ {
		if i > 0 {
			time.Sleep(r.ClickInterval)
		}
		robotgo.Click(button.String(), false)
	}
	return nil
}

// KeyTap presses key with the given modifiers held.
func (r *Robot) KeyTap(key string, modifiers ...string) error {
	var err error
	if len(modifiers) > 0 {
		err = robotgo.KeyTap(key, modifiers)
	} else {
		err = robotgo.KeyTap(key)
	}
	if err != nil {
		return fmt.Errorf("key %q: %w", key, err)
	}
	return nil
}

// TypeText types text one character at a time.
func (r *Robot) TypeText(text string, delay time.Duration) error {
	if delay <= 0 {
		robotgo.TypeStr(text)
		return nil
	}
	for _, ch := range text {
		robotgo.Type(string(ch))
		time.Sleep(delay)
	}
	return nil
}

// PixelColor samples the live screen at (x, y).
func (r *Robot) PixelColor(x, y int) (model.Color, error) {
	return parseHex(robotgo.GetPixelColor(x, y))
}

func parseHex(s string) (model.Color, error) {
	if len(s) != 6 {
		return model.Color{}, fmt.Errorf("unexpected pixel color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return model.Color{}, fmt.Errorf("unexpected pixel color %q: %w", s, err)
	}
	return model.RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}
