package platform

import (
	"fmt"
	"time"

	"github.com/mj1618/scoopick/internal/model"
)

// Controller drives an Inputter with a fixed pause after every action so the
// target application has time to react.
type Controller struct {
	Input Inputter
	Delay time.Duration
	// Sleep is time.Sleep unless replaced in tests.
	Sleep func(time.Duration)
}

// NewController returns a Controller pausing delay after each action.
func NewController(in Inputter, delay time.Duration) *Controller {
	return &Controller{Input: in, Delay: delay, Sleep: time.Sleep}
}

func (c *Controller) pause(d time.Duration) {
	if d > 0 {
		c.Sleep(d)
	}
}

// MoveTo moves the pointer onto p.
func (c *Controller) MoveTo(p model.Point) error {
	if !p.IsSet() {
		return fmt.Errorf("point %q has no position", p.Name)
	}
	if err := c.Input.MoveMouse(p.X, p.Y); err != nil {
		return err
	}
	c.pause(c.Delay)
	return nil
}

// ClickAt moves onto p and clicks the left button.
func (c *Controller) ClickAt(p model.Point) error {
	return c.ClickButtonAt(p, MouseLeft, 1)
}

// ClickButtonAt moves onto p and clicks button count times.
func (c *Controller) ClickButtonAt(p model.Point, button MouseButton, count int) error {
	if err := c.MoveTo(p); err != nil {
		return err
	}
	if err := c.Input.Click(p.X, p.Y, button, count); err != nil {
		return err
	}
	c.pause(c.Delay)
	return nil
}

// Tap presses a single key.
func (c *Controller) Tap(key string, modifiers ...string) error {
	if err := c.Input.KeyTap(key, modifiers...); err != nil {
		return err
	}
	c.pause(c.Delay)
	return nil
}

// TypeText types text with charDelay between characters, then presses Enter.
func (c *Controller) TypeText(text string, charDelay time.Duration) error {
	if err := c.Input.TypeText(text, charDelay); err != nil {
		return err
	}
	return c.Tap("enter")
}

// Wait sleeps for d.
func (c *Controller) Wait(d time.Duration) {
	c.pause(d)
}
