package wordle

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"strings"
)

// Feedback marks per letter.
const (
	Gray   = '_'
	Green  = 'g'
	Yellow = 'y'
)

// WordLength is the length of every guess.
const WordLength = 5

// ErrNoCandidates means no word fits the feedback seen so far.
var ErrNoCandidates = errors.New("no candidate word fits the feedback")

//go:embed words.txt
var wordList string

// Words returns the embedded dictionary in file order.
func Words() []string {
	var out []string
	sc := bufio.NewScanner(strings.NewReader(wordList))
	for sc.Scan() {
		if w := strings.ToUpper(strings.TrimSpace(sc.Text())); len(w) == WordLength {
			out = append(out, w)
		}
	}
	return out
}

// Solver narrows a dictionary with the feedback of each guess.
type Solver struct {
	candidates []string
	solved     bool
}

// NewSolver starts from words, or the embedded dictionary when words is empty.
func NewSolver(words ...string) *Solver {
	if len(words) == 0 {
		words = Words()
	}
	c := make([]string, 0, len(words))
	for _, w := range words {
		c = append(c, strings.ToUpper(w))
	}
	return &Solver{candidates: c}
}

// Candidates returns the words still possible.
func (s *Solver) Candidates() []string {
	return append([]string(nil), s.candidates...)
}

// Solved reports whether a guess came back all green.
func (s *Solver) Solved() bool { return s.solved }

// Guess applies feedback (one of '_', 'g', 'y' per letter) for guess.
func (s *Solver) Guess(guess, feedback string) error {
	guess = strings.ToUpper(guess)
	if len(guess) != WordLength || len(feedback) != WordLength {
		return fmt.Errorf("guess %q and feedback %q must be %d letters", guess, feedback, WordLength)
	}
	if feedback == strings.Repeat(string(Green), WordLength) {
		s.solved = true
		s.candidates = []string{guess}
		return nil
	}
	kept := s.candidates[:0]
	for _, w := range s.candidates {
		if w != guess && fits(w, guess, feedback) {
			kept = append(kept, w)
		}
	}
	s.candidates = kept
	return nil
}

// Next returns the next word to try.
func (s *Solver) Next() (string, error) {
	if len(s.candidates) == 0 {
		return "", ErrNoCandidates
	}
	return s.candidates[0], nil
}

// fits reports whether word is consistent with guess having scored feedback.
func fits(word, guess, feedback string) bool {
	for i := 0; i < WordLength; i++ {
		letter := guess[i]
		switch feedback[i] {
		case Green:
			if word[i] != letter {
				return false
			}
		case Yellow:
			if word[i] == letter || strings.IndexByte(word, letter) < 0 {
				return false
			}
		default:
			if word[i] == letter {
				return false
			}
			if !markedElsewhere(guess, feedback, letter) && strings.IndexByte(word, letter) >= 0 {
				return false
			}
		}
	}
	return true
}

func markedElsewhere(guess, feedback string, letter byte) bool {
	for i := 0; i < WordLength; i++ {
		if guess[i] == letter && feedback[i] != Gray {
			return true
		}
	}
	return false
}

// Score returns the feedback the game gives for guess against answer.
func Score(guess, answer string) string {
	guess, answer = strings.ToUpper(guess), strings.ToUpper(answer)
	out := []byte(strings.Repeat(string(Gray), WordLength))
	left := map[byte]int{}
	for i := 0; i < WordLength; i++ {
		if guess[i] == answer[i] {
			out[i] = Green
		} else {
			left[answer[i]]++
		}
	}
	for i := 0; i < WordLength; i++ {
		if out[i] != Green && left[guess[i]] > 0 {
			out[i] = Yellow
			left[guess[i]]--
		}
	}
	return string(out)
}
