package constraints

import (
	"strconv"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

// Accumulator folds guess records one at a time into a WordConstraints.
// It is not safe for concurrent use; hand out Constraints() copies instead.
type Accumulator struct {
	c       WordConstraints
	guesses int
}

// NewAccumulator returns an accumulator with no evidence.
func NewAccumulator() *Accumulator {
	return &Accumulator{c: New()}
}

// Fold builds the constraints for a full guess history.
// Folding the same history always yields an identical result.
func Fold(history []feedback.GuessRecord) WordConstraints {
	a := NewAccumulator()
	for _, g := range history {
		a.Add(g)
	}
	return a.c
}

// Guesses returns how many records have been folded.
func (a *Accumulator) Guesses() int { return a.guesses }

// Constraints returns a deep copy of the current aggregate.
func (a *Accumulator) Constraints() WordConstraints { return a.c.Clone() }

// letterGroup collects the tiles of one letter within a single guess.
type letterGroup struct {
	letter  feedback.Letter
	correct int
	present int
	absent  int
}

func (g letterGroup) nonAbsent() int { return g.correct + g.present }

// Add folds one guess record.
func (a *Accumulator) Add(g feedback.GuessRecord) {
	// Group by letter in first-appearance order so conflicts are reported deterministically.
	var slot [26]int
	groups := make([]letterGroup, 0, len(g))
	for _, t := range g {
		i := t.Letter.Index()
		if slot[i] == 0 {
			groups = append(groups, letterGroup{letter: t.Letter})
			slot[i] = len(groups)
		}
		lg := &groups[slot[i]-1]
		switch t.State {
		case feedback.Correct:
			lg.correct++
		case feedback.Present:
			lg.present++
		case feedback.Absent:
			lg.absent++
		}
	}

	for _, lg := range groups {
		n := lg.nonAbsent()
		switch {
		case n > 0 && lg.absent > 0:
			a.setExact(lg.letter, n)
		case n > 0:
			a.raiseMin(lg.letter, n)
		}
		if n > 0 && a.c.AbsentLetters.Has(lg.letter) {
			a.conflict(Conflict{Kind: ConflictAbsentThenPresent, Letter: lg.letter})
			delete(a.c.AbsentLetters, lg.letter)
		}
	}

	for i, t := range g {
		switch t.State {
		case feedback.Correct:
			a.setPosition(i, t.Letter)
			a.c.PresentLetters.Add(t.Letter)
		case feedback.Present:
			a.c.PresentLetters.Add(t.Letter)
			a.c.exclude(i, t.Letter)
		case feedback.Absent:
			if groups[slot[t.Letter.Index()]-1].nonAbsent() == 0 {
				a.markAbsent(t.Letter)
			}
		}
	}
	a.guesses++
}

// setExact records that l occurs exactly n times.
func (a *Accumulator) setExact(l feedback.Letter, n int) {
	if prev, ok := a.c.LetterCounts[l]; ok {
		switch {
		case prev.Exact() && prev.Max != n:
			a.conflict(Conflict{Kind: ConflictCountChanged, Letter: l, Previous: strconv.Itoa(prev.Max)})
		case !prev.Exact() && prev.Min > n:
			a.conflict(Conflict{Kind: ConflictBoundExceedsMax, Letter: l, Previous: strconv.Itoa(prev.Min)})
		}
	}
	a.c.LetterCounts[l] = Bounds{Min: n, Max: n}
}

// raiseMin lifts the lower bound for l to at least n. An exact count is
// never widened; a bound above it is kept and flagged, which leaves the
// letter unsatisfiable.
func (a *Accumulator) raiseMin(l feedback.Letter, n int) {
	b := a.c.LetterCounts[l]
	if n <= b.Min {
		return
	}
	if b.Exact() {
		a.conflict(Conflict{Kind: ConflictBoundExceedsMax, Letter: l, Previous: strconv.Itoa(b.Max)})
	}
	b.Min = n
	a.c.LetterCounts[l] = b
}

func (a *Accumulator) setPosition(p int, l feedback.Letter) {
	if prev, ok := a.c.CorrectPositions[p]; ok && prev != l {
		a.conflict(Conflict{Kind: ConflictPositionChanged, Letter: l, Position: p, Previous: prev.String()})
	}
	a.c.CorrectPositions[p] = l
}

// markAbsent records l as wholly absent. Earlier evidence that l occurs is
// dropped so absence and a count are never asserted together.
func (a *Accumulator) markAbsent(l feedback.Letter) {
	if b, ok := a.c.LetterCounts[l]; ok {
		a.conflict(Conflict{Kind: ConflictPresentThenAbsent, Letter: l, Previous: strconv.Itoa(b.Min)})
		delete(a.c.LetterCounts, l)
		delete(a.c.PresentLetters, l)
	}
	a.c.AbsentLetters.Add(l)
}

func (a *Accumulator) conflict(c Conflict) {
	c.Guess = a.guesses
	a.c.Conflicts = append(a.c.Conflicts, c)
}
