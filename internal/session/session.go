// internal/session/session.go
//
// A session is a persistent, incrementally growing guess history.
// It stores the Guess Records themselves, never the folded constraints:
// Constraints() refolds on demand, which is cheap and always idempotent.

package session

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/robalobadob/wordle/apps/go-solver/internal/constraints"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// MaxGuesses caps how many rounds one session accepts.
const MaxGuesses = 32

var (
	ErrBadLength     = errors.New("session: word length out of range")
	ErrFull          = errors.New("session: too many guesses")
	ErrBadPosition   = errors.New("session: exclusion position out of range")
	ErrExcludesFixed = errors.New("session: letter is confirmed at that position")
)

// Session holds the state of one solving session.
type Session struct {
	ID         string                    `json:"id"`
	Length     int                       `json:"length"`
	History    []feedback.GuessRecord    `json:"history"`
	Exclusions map[feedback.Letter][]int `json:"exclusions,omitempty"`
	CreatedAt  time.Time                 `json:"createdAt"`
	UpdatedAt  time.Time                 `json:"updatedAt"`
}

// New starts an empty session for words of the given length.
func New(length int) (*Session, error) {
	if length < words.MinLength || length > words.MaxLength {
		return nil, fmt.Errorf("%w: %d", ErrBadLength, length)
	}
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		Length:    length,
		History:   []feedback.GuessRecord{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AddGuess appends one record after checking it matches the session length.
func (s *Session) AddGuess(g feedback.GuessRecord) error {
	if len(g) != s.Length {
		return &feedback.LengthError{Got: len(g), Want: s.Length}
	}
	if len(s.History) >= MaxGuesses {
		return ErrFull
	}
	s.History = append(s.History, g)
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Exclude records that l is not at any of positions. Positions where the
// feedback already fixed l are refused.
func (s *Session) Exclude(l feedback.Letter, positions ...int) error {
	fixed := s.Constraints().CorrectPositions
	for _, p := range positions {
		if p < 0 || p >= s.Length {
			return fmt.Errorf("%w: %d (length %d)", ErrBadPosition, p, s.Length)
		}
		if fixed[p] == l {
			return fmt.Errorf("%w: %s at %d", ErrExcludesFixed, l, p)
		}
	}
	if s.Exclusions == nil {
		s.Exclusions = make(map[feedback.Letter][]int)
	}
	merged := append(s.Exclusions[l], positions...)
	sort.Ints(merged)
	s.Exclusions[l] = dedup(merged)
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func dedup(sorted []int) []int {
	out := sorted[:0]
	for i, p := range sorted {
		if i == 0 || p != sorted[i-1] {
			out = append(out, p)
		}
	}
	return out
}

// Solved reports whether the last guess was all correct.
func (s *Session) Solved() bool {
	return len(s.History) > 0 && s.History[len(s.History)-1].Solved()
}

// Constraints refolds the history and applies the manual exclusions.
func (s *Session) Constraints() constraints.WordConstraints {
	c := constraints.Fold(s.History)
	if len(s.Exclusions) > 0 {
		c = c.WithExclusions(s.Exclusions)
	}
	return c
}

// Request builds a solver request for the current state.
func (s *Session) Request(limit int) solver.Request {
	return solver.Request{
		History:    s.History,
		Length:     s.Length,
		Exclusions: s.Exclusions,
		Limit:      limit,
	}
}

// Fingerprint hashes the evidence (length, history, exclusions) so callers
// can tell whether anything changed.
func (s *Session) Fingerprint() string {
	b, _ := json.Marshal(struct {
		Length     int                       `json:"l"`
		History    []feedback.GuessRecord    `json:"h"`
		Exclusions map[feedback.Letter][]int `json:"x"`
	}{s.Length, s.History, s.Exclusions})
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:16])
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	out := *s
	out.History = make([]feedback.GuessRecord, len(s.History))
	for i, g := range s.History {
		out.History[i] = append(feedback.GuessRecord(nil), g...)
	}
	if s.Exclusions != nil {
		out.Exclusions = make(map[feedback.Letter][]int, len(s.Exclusions))
		for l, ps := range s.Exclusions {
			out.Exclusions[l] = append([]int(nil), ps...)
		}
	}
	return &out
}
