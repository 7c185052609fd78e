package wordle

import (
	"context"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/mj1618/scoopick/internal/model"
	"github.com/mj1618/scoopick/internal/script"
	"github.com/mj1618/scoopick/internal/script/scripttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// board renders the tile colors the game would show for the guesses typed so far.
type board struct {
	in     *scripttest.Input
	grid   []model.Point
	answer string
	shots  int
}

func (b *board) capture() (image.Image, error) {
	b.shots++
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	row := 0
	for _, a := range b.in.Recorded() {
		guess, ok := strings.CutPrefix(a, "type ")
		if !ok {
			continue
		}
		for i, mark := range Score(guess, b.answer) {
			c := GrayColor
			switch mark {
			case Green:
				c = model.RGB(85, 139, 80)
			case Yellow:
				c = model.RGB(178, 160, 62)
			}
			p := b.grid[row*WordLength+i]
			img.Set(p.X, p.Y, color.RGBA{R: c[0], G: c[1], B: c[2], A: 255})
		}
		row++
	}
	return img, nil
}

func setup(answer string, words ...string) (*Script, *board, *scripttest.Sleeper) {
	in := &scripttest.Input{}
	sl := &scripttest.Sleeper{}
	b := &board{in: in, grid: scripttest.Grid("T", Rows, WordLength, 10), answer: answer}
	s := New(script.Deps{Input: in, Sleep: sl.Sleep}, func() *Solver { return NewSolver(words...) })
	return s, b, sl
}

func TestRun_SolvesFromFeedback(t *testing.T) {
	s, b, _ := setup("PRIME", "SLATE", "CRANE", "BRINE", "PRIME")

	require.NoError(t, s.Run(context.Background(), b.grid, b.capture))
	assert.Equal(t, []string{
		"type slate", "key enter",
		"type brine", "key enter",
		"type prime", "key enter",
	}, b.in.Recorded())
	assert.Equal(t, 3, b.shots)
}

func TestRun_FirstGuessWins(t *testing.T) {
	s, b, sl := setup("SLATE")

	require.NoError(t, s.Run(context.Background(), b.grid, b.capture))
	assert.Equal(t, []string{"type slate", "key enter"}, b.in.Recorded())
	assert.Equal(t, startDelay+revealDelay, sl.Total)
}

func TestRun_UnknownAnswerRunsOut(t *testing.T) {
	s, b, _ := setup("QUIRK", "SLATE", "CRANE")

	err := s.Run(context.Background(), b.grid, b.capture)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestRun_NeedsGrid(t *testing.T) {
	s, b, _ := setup("SLATE")
	assert.ErrorContains(t, s.Run(context.Background(), b.grid[:10], b.capture), "needs 30 points")
}

func TestRun_CaptureError(t *testing.T) {
	s, b, _ := setup("SLATE")
	err := s.Run(context.Background(), b.grid, func() (image.Image, error) { return nil, assert.AnError })
	assert.ErrorIs(t, err, assert.AnError)
}
