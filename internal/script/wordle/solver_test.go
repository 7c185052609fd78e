package wordle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct{ guess, answer, want string }{
		{"SLATE", "SLATE", "ggggg"},
		{"SLATE", "PRIME", "____g"},
		{"CRANE", "REACT", "yyg_y"},
		{"EERIE", "THOSE", "____g"},
		{"SPEED", "ABIDE", "__y_y"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Score(tt.guess, tt.answer), "%s vs %s", tt.guess, tt.answer)
	}
}

func TestWords_Embedded(t *testing.T) {
	words := Words()
	assert.Greater(t, len(words), 100)
	assert.Contains(t, words, FirstGuess)
	for _, w := range words {
		require.Len(t, w, WordLength)
	}
}

func TestSolver_NarrowsToAnswer(t *testing.T) {
	s := NewSolver("SLATE", "CRANE", "BRINE", "PRIME")
	require.NoError(t, s.Guess("SLATE", Score("SLATE", "PRIME")))
	assert.Equal(t, []string{"BRINE", "PRIME"}, s.Candidates())

	next, err := s.Next()
	require.NoError(t, err)
	require.NoError(t, s.Guess(next, Score(next, "PRIME")))
	assert.Equal(t, []string{"PRIME"}, s.Candidates())
	assert.False(t, s.Solved())

	require.NoError(t, s.Guess("PRIME", "ggggg"))
	assert.True(t, s.Solved())
}

func TestSolver_AnswerNeverFiltered(t *testing.T) {
	words := Words()
	for _, answer := range []string{"CRANE", "WORLD", "EERIE", "SPEED", "THOSE", "GUESS"} {
		s := NewSolver(append(words, answer)...)
		guess := FirstGuess
		for i := 0; i < 10 && !s.Solved(); i++ {
			require.NoError(t, s.Guess(guess, Score(guess, answer)))
			if s.Solved() {
				break
			}
			require.Contains(t, s.Candidates(), answer, "answer dropped after %s", guess)
			var err error
			guess, err = s.Next()
			require.NoError(t, err)
		}
		assert.True(t, s.Solved(), answer)
	}
}

func TestSolver_NoCandidates(t *testing.T) {
	s := NewSolver("SLATE")
	require.NoError(t, s.Guess("SLATE", "g____"))
	_, err := s.Next()
	assert.ErrorIs(t, err, ErrNoCandidates)
	assert.Error(t, s.Guess("SLAT", "gggg"))
}
