// internal/feedback/parse.go
//
// Boundary constructors for guess feedback. Everything a client sends is
// checked here exactly once:
//   - letters must be alphabetic (normalized to uppercase);
//   - states must be one of the three resolved values (aliases accepted);
//   - the tile count must equal the expected word length.
//
// Unknown or unresolved states are rejected, never coerced.

package feedback

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidLetter   = errors.New("feedback: invalid letter")
	ErrInvalidState    = errors.New("feedback: invalid state")
	ErrUnresolvedState = errors.New("feedback: unresolved state")
	ErrEmptyGuess      = errors.New("feedback: empty guess")
)

// LengthError reports a tile count that does not match the expected word length.
type LengthError struct {
	Got  int
	Want int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("feedback: guess has %d tiles, want %d", e.Got, e.Want)
}

// ParseState maps a client-supplied state onto a resolved State.
//
// Accepted spellings:
//   correct | hit  | green  | g | 2
//   present | yellow      | y | 1
//   absent  | miss | gray | grey | b | 0
func ParseState(s string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "correct", "hit", "green", "g", "2":
		return Correct, nil
	case "present", "yellow", "y", "1":
		return Present, nil
	case "absent", "miss", "gray", "grey", "b", "0":
		return Absent, nil
	case "", "unknown", "empty", "?", "tbd":
		return "", fmt.Errorf("%w: %q", ErrUnresolvedState, s)
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidState, s)
}

// NewTile validates a single letter/state pair.
func NewTile(letter rune, state string) (Tile, error) {
	l, ok := ToLetter(letter)
	if !ok {
		return Tile{}, fmt.Errorf("%w: %q", ErrInvalidLetter, letter)
	}
	st, err := ParseState(state)
	if err != nil {
		return Tile{}, err
	}
	return Tile{Letter: l, State: st}, nil
}

// NewGuess builds a GuessRecord from a word and one state per letter.
// wantLen is the expected word length; 0 means len(word).
func NewGuess(word string, states []string, wantLen int) (GuessRecord, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, ErrEmptyGuess
	}
	if wantLen == 0 {
		wantLen = len(word)
	}
	if len(word) != wantLen {
		return nil, &LengthError{Got: len(word), Want: wantLen}
	}
	if len(states) != wantLen {
		return nil, &LengthError{Got: len(states), Want: wantLen}
	}
	g := make(GuessRecord, 0, wantLen)
	for i, r := range word {
		t, err := NewTile(r, states[i])
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		g = append(g, t)
	}
	return g, nil
}

// ParsePattern builds a GuessRecord from a word and a compact pattern,
// one character per letter: g = correct, y = present, b/./- = absent.
//
//	ParsePattern("crane", "bbyyg")
func ParsePattern(word, pattern string) (GuessRecord, error) {
	pattern = strings.TrimSpace(pattern)
	states := make([]string, 0, len(pattern))
	for _, c := range pattern {
		switch c {
		case '.', '-', '_':
			states = append(states, "b")
		default:
			states = append(states, string(c))
		}
	}
	return NewGuess(word, states, len(strings.TrimSpace(word)))
}

// ParseSpec parses the CLI form "WORD:pattern", e.g. "CRANE:bbyyg".
func ParseSpec(spec string) (GuessRecord, error) {
	word, pattern, ok := strings.Cut(spec, ":")
	if !ok {
		return nil, fmt.Errorf("feedback: %q is not WORD:pattern", spec)
	}
	return ParsePattern(word, pattern)
}
