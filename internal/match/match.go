// Package match decides whether a candidate word is consistent with a set
// of inferred constraints.
//
// Rules run in a fixed order and stop at the first failure:
//
//  1. fixed positions
//  2. absence (a count constraint on the same letter overrides it)
//  3. occurrence count bounds
//  4. present-letter placement feasibility
//
// Placement is checked per letter. It does not prove that all present
// letters can occupy distinct slots at once.
package match

import (
	"github.com/robalobadob/wordle/apps/go-solver/internal/constraints"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

// Rule identifies which check rejected a word.
type Rule int

const (
	RuleNone Rule = iota
	RuleFixedPosition
	RuleAbsent
	RuleCount
	RulePlacement
)

func (r Rule) String() string {
	switch r {
	case RuleNone:
		return "consistent"
	case RuleFixedPosition:
		return "fixed position"
	case RuleAbsent:
		return "absent letter"
	case RuleCount:
		return "letter count"
	case RulePlacement:
		return "present letter placement"
	}
	return "unknown"
}

// IsConsistent reports whether word can be the target under c.
func IsConsistent(word string, c constraints.WordConstraints) bool {
	return Check(word, c) == RuleNone
}

// Check returns the first rule word violates, or RuleNone.
// Letters in word are compared case-insensitively.
func Check(word string, c constraints.WordConstraints) Rule {
	for p, l := range c.CorrectPositions {
		if p < 0 || p >= len(word) || feedback.LetterAt(word, p) != l {
			return RuleFixedPosition
		}
	}

	var counts [26]int
	for i := 0; i < len(word); i++ {
		if l := feedback.LetterAt(word, i); l != 0 {
			counts[l.Index()]++
		}
	}

	for l := range c.AbsentLetters {
		if _, counted := c.LetterCounts[l]; counted {
			continue
		}
		if counts[l.Index()] > 0 {
			return RuleAbsent
		}
	}

	for l, b := range c.LetterCounts {
		if !b.Allows(counts[l.Index()]) {
			return RuleCount
		}
	}

	for l := range c.PresentLetters {
		if !placeable(word, l, c) {
			return RulePlacement
		}
	}
	return RuleNone
}

// placeable reports whether l occurs at some position of word that is
// neither excluded for l nor fixed to a different letter.
func placeable(word string, l feedback.Letter, c constraints.WordConstraints) bool {
	for i := 0; i < len(word); i++ {
		if feedback.LetterAt(word, i) != l {
			continue
		}
		if c.Excluded(i, l) {
			continue
		}
		if fixed, ok := c.CorrectPositions[i]; ok && fixed != l {
			continue
		}
		return true
	}
	return false
}
