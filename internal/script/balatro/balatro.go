// Package balatro rerolls Balatro runs until a skip tag offers an arcane
// pack holding a legendary card, then uses that card.
//
// It expects 24 points in this order: skip 1 icon, skip 2 icon, skip 2 icon
// underside, skip 1 button, skip 2 button, skip arcane pack, new game, play,
// options, cards 1-5, card icons 1-5, card use buttons 1-5.
package balatro

import (
	"context"
	"fmt"
	"time"

	"github.com/mj1618/scoopick/internal/model"
	"github.com/mj1618/scoopick/internal/platform"
	"github.com/mj1618/scoopick/internal/script"
	"go.uber.org/zap"
)

// Name is the registry name.
const Name = "balatro"

// PointCount is the number of points the script reads.
const PointCount = 24

// Reference colors.
var (
	TarotColor      = model.RGB(158, 116, 206)
	ArcaneColor     = model.RGB(125, 96, 224)
	ArcaneDarkColor = model.RGB(93, 89, 155)
)

// Threshold is the color distance under which two colors match.
const Threshold = 10

const (
	startDelay  = 10 * time.Second
	hoverDelay  = 100 * time.Millisecond
	skipDelay   = 2500 * time.Millisecond
	useDelay    = 10 * time.Second
	cardDelay   = 500 * time.Millisecond
	settleDelay = time.Second
)

func init() {
	script.Register(Name, "reroll runs until an arcane pack holds a legendary card", PointCount, func(d script.Deps) (script.Script, error) {
		return New(d), nil
	})
}

// Card groups the points of one card slot in an opened pack.
type Card struct {
	Card model.Point
	Icon model.Point
	Use  model.Point
}

// Layout names the points the script clicks and samples.
type Layout struct {
	SkipIcon1      model.Point
	SkipIcon2      model.Point
	SkipIcon2Under model.Point
	SkipButton1    model.Point
	SkipButton2    model.Point
	SkipPack       model.Point
	NewGame        model.Point
	Play           model.Point
	Options        model.Point
	Cards          [5]Card
}

// LayoutFrom maps points by position. Every point must be set.
func LayoutFrom(points []model.Point) (Layout, error) {
	if len(points) < PointCount {
		return Layout{}, fmt.Errorf("balatro needs %d points, got %d", PointCount, len(points))
	}
	for _, p := range points[:PointCount] {
		if !p.IsSet() {
			return Layout{}, fmt.Errorf("point %d (%s) has no position", p.Idx, p.Name)
		}
	}
	l := Layout{
		SkipIcon1:      points[0],
		SkipIcon2:      points[1],
		SkipIcon2Under: points[2],
		SkipButton1:    points[3],
		SkipButton2:    points[4],
		SkipPack:       points[5],
		NewGame:        points[6],
		Play:           points[7],
		Options:        points[8],
	}
	for i := range l.Cards {
		l.Cards[i] = Card{Card: points[9+i], Icon: points[14+i], Use: points[19+i]}
	}
	return l, nil
}

// Script drives the reroll loop.
type Script struct {
	deps script.Deps
	log  *zap.Logger
	// Rounds stops the loop after that many rounds when positive.
	Rounds int
}

// New returns the script.
func New(d script.Deps) *Script {
	return &Script{deps: d, log: d.Log().With(zap.String("script", Name))}
}

// Run waits for the user to focus the game, then loops until ctx is done.
func (s *Script) Run(ctx context.Context, points []model.Point, _ script.CaptureFunc) error {
	if s.deps.Input == nil || s.deps.Pixels == nil {
		return platform.ErrUnsupported
	}
	layout, err := LayoutFrom(points)
	if err != nil {
		return err
	}
	r := &round{Script: s, layout: layout}

	s.log.Info("waiting before start", zap.Duration("delay", startDelay))
	if err := s.deps.Wait(ctx, startDelay); err != nil {
		return err
	}
	for n := 1; s.Rounds <= 0 || n <= s.Rounds; n++ {
		if err := r.clickArcanePack(ctx); err != nil {
			return err
		}
	}
	return nil
}

type round struct {
	*Script
	layout Layout
}

func (r *round) wait(ctx context.Context, d time.Duration) error {
	return r.deps.Wait(ctx, d)
}

// click hovers p briefly before pressing, so the game registers the hover.
func (r *round) click(ctx context.Context, p model.Point) error {
	if err := r.deps.Input.MoveMouse(p.X, p.Y); err != nil {
		return err
	}
	if err := r.wait(ctx, hoverDelay); err != nil {
		return err
	}
	return r.deps.Input.Click(p.X, p.Y, platform.MouseLeft, 1)
}

func (r *round) near(p model.Point, ref model.Color) (bool, error) {
	c, err := r.deps.Pixels.PixelColor(p.X, p.Y)
	if err != nil {
		return false, err
	}
	return script.Near(c, ref, Threshold), nil
}

func (r *round) clickArcanePack(ctx context.Context) error {
	if err := r.wait(ctx, settleDelay); err != nil {
		return err
	}
	hasFirst, err := r.near(r.layout.SkipIcon1, ArcaneColor)
	if err != nil {
		return err
	}
	hasSecond, err := r.near(r.layout.SkipIcon2Under, ArcaneDarkColor)
	if err != nil {
		return err
	}
	r.log.Debug("skip tags", zap.Bool("first", hasFirst), zap.Bool("second", hasSecond))

	if hasFirst || hasSecond {
		if err := r.skip(ctx, r.layout.SkipButton1, hasFirst); err != nil {
			return err
		}
	}
	if hasSecond {
		if err := r.skip(ctx, r.layout.SkipButton2, true); err != nil {
			return err
		}
	}
	return r.resetGame(ctx)
}

// skip presses a skip button and, when it yields an arcane pack, looks for a
// legendary card before leaving the pack.
func (r *round) skip(ctx context.Context, button model.Point, pack bool) error {
	if err := r.click(ctx, button); err != nil {
		return err
	}
	r.log.Debug("skipped blind", zap.String("button", button.Name))
	if err := r.wait(ctx, skipDelay); err != nil {
		return err
	}
	if !pack {
		return nil
	}
	if _, err := r.selectArcaneCard(ctx); err != nil {
		return err
	}
	if err := r.wait(ctx, settleDelay); err != nil {
		return err
	}
	if err := r.click(ctx, r.layout.SkipPack); err != nil {
		return err
	}
	return r.wait(ctx, settleDelay)
}

// selectArcaneCard hovers each card and uses the first one whose icon is not
// the plain tarot color. It reports whether one was found.
func (r *round) selectArcaneCard(ctx context.Context) (bool, error) {
	for i, card := range r.layout.Cards {
		if err := r.wait(ctx, cardDelay); err != nil {
			return false, err
		}
		if err := r.deps.Input.MoveMouse(card.Card.X, card.Card.Y); err != nil {
			return false, err
		}
		if err := r.wait(ctx, hoverDelay); err != nil {
			return false, err
		}
		c, err := r.deps.Pixels.PixelColor(card.Icon.X, card.Icon.Y)
		if err != nil {
			return false, err
		}
		if model.Distance(c, TarotColor) <= Threshold {
			continue
		}
		r.log.Info("legendary card found", zap.Int("card", i+1))
		if err := r.deps.Input.Click(card.Card.X, card.Card.Y, platform.MouseLeft, 1); err != nil {
			return false, err
		}
		if err := r.wait(ctx, settleDelay); err != nil {
			return false, err
		}
		if err := r.click(ctx, card.Use); err != nil {
			return false, err
		}
		return true, r.wait(ctx, useDelay)
	}
	r.log.Debug("no legendary card found")
	return false, nil
}

func (r *round) resetGame(ctx context.Context) error {
	steps := []struct {
		p     model.Point
		after time.Duration
	}{
		{r.layout.Options, 500 * time.Millisecond},
		{r.layout.NewGame, 500 * time.Millisecond},
		{r.layout.Play, 2 * time.Second},
	}
	for _, s := range steps {
		if err := r.click(ctx, s.p); err != nil {
			return err
		}
		if err := r.wait(ctx, s.after); err != nil {
			return err
		}
	}
	r.log.Debug("new game")
	return nil
}
