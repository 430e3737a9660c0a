// Package constraints folds guess feedback into the set of facts the hidden
// word must satisfy.
//
// A WordConstraints value is produced by an Accumulator (or Fold) and is
// read-only afterwards. Callers that want history should keep the
// feedback.GuessRecord slice and refold; the aggregate is never persisted.
package constraints

import (
	"encoding/json"
	"sort"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

// LetterSet is a set of letters. It marshals as a sorted JSON array.
type LetterSet map[feedback.Letter]struct{}

func (s LetterSet) Has(l feedback.Letter) bool {
	_, ok := s[l]
	return ok
}

func (s LetterSet) Add(l feedback.Letter) { s[l] = struct{}{} }

// Sorted returns the letters in alphabetical order.
func (s LetterSet) Sorted() []feedback.Letter {
	out := make([]feedback.Letter, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s LetterSet) clone() LetterSet {
	out := make(LetterSet, len(s))
	for l := range s {
		out[l] = struct{}{}
	}
	return out
}

func (s LetterSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *LetterSet) UnmarshalJSON(b []byte) error {
	var letters []feedback.Letter
	if err := json.Unmarshal(b, &letters); err != nil {
		return err
	}
	*s = make(LetterSet, len(letters))
	for _, l := range letters {
		s.Add(l)
	}
	return nil
}

// Bounds are occurrence bounds for one letter.
// Max is zero while only a lower bound is known; Max > 0 means the count is exact.
type Bounds struct {
	Min int `json:"min"`
	Max int `json:"max,omitempty"`
}

// Exact reports whether the occurrence count is fixed.
func (b Bounds) Exact() bool { return b.Max > 0 }

// Allows reports whether n occurrences fall inside the bounds.
func (b Bounds) Allows(n int) bool {
	if n < b.Min {
		return false
	}
	return !b.Exact() || n <= b.Max
}

// ConflictKind names the way two pieces of evidence disagreed.
type ConflictKind string

const (
	// An exact count was replaced by a different exact count.
	ConflictCountChanged ConflictKind = "count_changed"
	// A lower bound exceeded an existing exact count.
	ConflictBoundExceedsMax ConflictKind = "bound_exceeds_max"
	// A fixed position received a different letter.
	ConflictPositionChanged ConflictKind = "position_changed"
	// A letter recorded as absent later showed up as correct/present.
	ConflictAbsentThenPresent ConflictKind = "absent_then_present"
	// A letter with a count constraint later showed up as wholly absent.
	ConflictPresentThenAbsent ConflictKind = "present_then_absent"
)

// Conflict records contradicting evidence. Folding never fails; later
// evidence wins and the overwrite is reported here.
type Conflict struct {
	Guess    int             `json:"guess"`
	Kind     ConflictKind    `json:"kind"`
	Letter   feedback.Letter `json:"letter"`
	Position int             `json:"position,omitempty"`
	Previous string          `json:"previous,omitempty"`
}

// WordConstraints is the accumulated aggregate of everything known about the target.
type WordConstraints struct {
	CorrectPositions   map[int]feedback.Letter    `json:"correctPositions"`
	PresentLetters     LetterSet                  `json:"presentLetters"`
	AbsentLetters      LetterSet                  `json:"absentLetters"`
	PositionExclusions map[int]LetterSet          `json:"positionExclusions"`
	LetterCounts       map[feedback.Letter]Bounds `json:"letterCounts"`
	Conflicts          []Conflict                 `json:"conflicts,omitempty"`
}

// New returns an empty WordConstraints with all maps allocated.
func New() WordConstraints {
	return WordConstraints{
		CorrectPositions:   map[int]feedback.Letter{},
		PresentLetters:     LetterSet{},
		AbsentLetters:      LetterSet{},
		PositionExclusions: map[int]LetterSet{},
		LetterCounts:       map[feedback.Letter]Bounds{},
	}
}

// Clone returns a deep copy.
func (c WordConstraints) Clone() WordConstraints {
	out := WordConstraints{
		CorrectPositions:   make(map[int]feedback.Letter, len(c.CorrectPositions)),
		PresentLetters:     c.PresentLetters.clone(),
		AbsentLetters:      c.AbsentLetters.clone(),
		PositionExclusions: make(map[int]LetterSet, len(c.PositionExclusions)),
		LetterCounts:       make(map[feedback.Letter]Bounds, len(c.LetterCounts)),
	}
	for p, l := range c.CorrectPositions {
		out.CorrectPositions[p] = l
	}
	for p, s := range c.PositionExclusions {
		out.PositionExclusions[p] = s.clone()
	}
	for l, b := range c.LetterCounts {
		out.LetterCounts[l] = b
	}
	if len(c.Conflicts) > 0 {
		out.Conflicts = append([]Conflict(nil), c.Conflicts...)
	}
	return out
}

// Excluded reports whether l is known not to occupy position p.
func (c WordConstraints) Excluded(p int, l feedback.Letter) bool {
	return c.PositionExclusions[p].Has(l)
}

// WithExclusions returns a copy with manual letter -> positions exclusions
// merged into PositionExclusions. Positions are not range checked here; the
// caller validates them against the word length.
func (c WordConstraints) WithExclusions(manual map[feedback.Letter][]int) WordConstraints {
	out := c.Clone()
	for l, positions := range manual {
		for _, p := range positions {
			out.exclude(p, l)
		}
	}
	return out
}

func (c *WordConstraints) exclude(p int, l feedback.Letter) {
	s, ok := c.PositionExclusions[p]
	if !ok {
		s = LetterSet{}
		c.PositionExclusions[p] = s
	}
	s.Add(l)
}
