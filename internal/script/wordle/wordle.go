// Package wordle plays Wordle by typing guesses and reading tile colors from
// fresh screenshots.
//
// It expects 30 points forming the 6x5 tile grid in row-major order.
package wordle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mj1618/scoopick/internal/model"
	"github.com/mj1618/scoopick/internal/platform"
	"github.com/mj1618/scoopick/internal/screen"
	"github.com/mj1618/scoopick/internal/script"
	"go.uber.org/zap"
)

// Name is the registry name.
const Name = "wordle"

const (
	Rows = 6
	// PointCount is the number of points the script reads.
	PointCount = Rows * WordLength
	// FirstGuess opens every game.
	FirstGuess = "SLATE"
)

// Tile colors.
var (
	GrayColor   = model.RGB(50, 50, 50)
	GreenColor  = model.RGB(83, 141, 78)
	YellowColor = model.RGB(181, 159, 59)
)

const (
	startDelay  = 3 * time.Second
	letterDelay = 100 * time.Millisecond
	revealDelay = 3 * time.Second
)

func init() {
	script.Register(Name, "solve Wordle from tile colors", PointCount, func(d script.Deps) (script.Script, error) {
		return New(d, nil), nil
	})
}

// Script plays one game.
type Script struct {
	deps    script.Deps
	log     *zap.Logger
	newSolv func() *Solver
}

// New returns the script. newSolver defaults to the embedded dictionary.
func New(d script.Deps, newSolver func() *Solver) *Script {
	if newSolver == nil {
		newSolver = func() *Solver { return NewSolver() }
	}
	return &Script{deps: d, log: d.Log().With(zap.String("script", Name)), newSolv: newSolver}
}

// Run plays until the word is found or the rows run out.
func (s *Script) Run(ctx context.Context, points []model.Point, capture script.CaptureFunc) error {
	if s.deps.Input == nil {
		return platform.ErrUnsupported
	}
	grid, err := gridFrom(points)
	if err != nil {
		return err
	}
	solver := s.newSolv()

	s.log.Debug("waiting before start", zap.Duration("delay", startDelay))
	if err := s.deps.Wait(ctx, startDelay); err != nil {
		return err
	}

	guess := FirstGuess
	for row := 0; row < Rows; row++ {
		if err := s.submit(ctx, guess); err != nil {
			return err
		}
		feedback, err := s.feedback(capture, grid[row])
		if err != nil {
			return err
		}
		s.log.Debug("feedback", zap.String("guess", guess), zap.String("feedback", feedback))
		if err := solver.Guess(guess, feedback); err != nil {
			return err
		}
		if solver.Solved() {
			s.log.Info("solved", zap.String("word", guess), zap.Int("guesses", row+1))
			return nil
		}
		if guess, err = solver.Next(); err != nil {
			return err
		}
	}
	return fmt.Errorf("not solved in %d guesses", Rows)
}

func gridFrom(points []model.Point) ([Rows][WordLength]model.Point, error) {
	var grid [Rows][WordLength]model.Point
	if len(points) < PointCount {
		return grid, fmt.Errorf("wordle needs %d points, got %d", PointCount, len(points))
	}
	for i, p := range points[:PointCount] {
		if !p.IsSet() {
			return grid, fmt.Errorf("point %d (%s) has no position", p.Idx, p.Name)
		}
		grid[i/WordLength][i%WordLength] = p
	}
	return grid, nil
}

func (s *Script) submit(ctx context.Context, guess string) error {
	if err := s.deps.Input.TypeText(strings.ToLower(guess), letterDelay); err != nil {
		return err
	}
	if err := s.deps.Input.KeyTap("enter"); err != nil {
		return err
	}
	return s.deps.Wait(ctx, revealDelay)
}

// feedback classifies each tile of row by its closest reference color.
func (s *Script) feedback(capture script.CaptureFunc, row [WordLength]model.Point) (string, error) {
	img, err := capture()
	if err != nil {
		return "", fmt.Errorf("capture failed: %w", err)
	}
	marks := []byte{Gray, Green, Yellow}
	var b strings.Builder
	for _, p := range row {
		c, ok := screen.PixelOf(img, p)
		if !ok {
			return "", fmt.Errorf("point %s is outside the %dx%d screenshot", p, img.Bounds().Dx(), img.Bounds().Dy())
		}
		b.WriteByte(marks[script.Closest(c, GrayColor, GreenColor, YellowColor)])
	}
	return b.String(), nil
}
