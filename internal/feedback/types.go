// internal/feedback/types.go
//
// Core type definitions for guess feedback.
// Defines:
//   - State:       resolved per-letter result of a guess (correct/present/absent).
//   - Letter:      a single uppercase A–Z letter.
//   - Tile:        one letter plus its state.
//   - GuessRecord: the ordered tiles of a single round.
//
// Records are built and validated once by the constructors in parse.go.
// Code downstream of this package assumes every tile is well formed.

package feedback

import (
	"fmt"
	"strings"
)

// State represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "correct": letter is in the answer at this position.
//   - "present": letter is in the answer at a different position.
//   - "absent":  letter does not occur (beyond the copies already marked).
type State string

const (
	Correct State = "correct"
	Present State = "present"
	Absent  State = "absent"
)

// Letter is an uppercase ASCII letter.
type Letter byte

// String returns the letter as a one-character string.
func (l Letter) String() string { return string(rune(l)) }

// Index maps the letter to 0..25.
func (l Letter) Index() int { return int(l - 'A') }

// MarshalText lets letters serve as JSON strings and JSON map keys.
func (l Letter) MarshalText() ([]byte, error) { return []byte{byte(l)}, nil }

// UnmarshalText accepts a single alphabetic character in either case.
func (l *Letter) UnmarshalText(b []byte) error {
	if len(b) != 1 {
		return fmt.Errorf("%w: %q", ErrInvalidLetter, string(b))
	}
	v, ok := ToLetter(rune(b[0]))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLetter, string(b))
	}
	*l = v
	return nil
}

// ToLetter normalizes r to an uppercase Letter.
// ok is false for anything outside a–z / A–Z.
func ToLetter(r rune) (Letter, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return Letter(r - 'a' + 'A'), true
	case r >= 'A' && r <= 'Z':
		return Letter(r), true
	}
	return 0, false
}

// LetterAt returns the normalized letter at position i of word.
// Non-letters map to 0, which never equals a valid Letter.
func LetterAt(word string, i int) Letter {
	l, _ := ToLetter(rune(word[i]))
	return l
}

// Tile is a single letter of a guess with its resolved state.
type Tile struct {
	Letter Letter `json:"letter"`
	State  State  `json:"state"`
}

// GuessRecord holds the tiles of a single round, one per word position.
type GuessRecord []Tile

// Word returns the guessed word in uppercase.
func (g GuessRecord) Word() string {
	var b strings.Builder
	b.Grow(len(g))
	for _, t := range g {
		b.WriteByte(byte(t.Letter))
	}
	return b.String()
}

// Pattern renders the states in the compact g/y/b form accepted by ParsePattern.
func (g GuessRecord) Pattern() string {
	var b strings.Builder
	b.Grow(len(g))
	for _, t := range g {
		switch t.State {
		case Correct:
			b.WriteByte('g')
		case Present:
			b.WriteByte('y')
		default:
			b.WriteByte('b')
		}
	}
	return b.String()
}

// Solved reports whether every tile is Correct.
func (g GuessRecord) Solved() bool {
	if len(g) == 0 {
		return false
	}
	for _, t := range g {
		if t.State != Correct {
			return false
		}
	}
	return true
}
