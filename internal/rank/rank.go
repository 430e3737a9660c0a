// internal/rank/rank.go
//
// Heuristic scoring and ranking of candidates that already passed match.IsConsistent.
//
// Score components:
//   - base:        10·log10(1+frequency), so order-of-magnitude gaps compress
//   - fixed:       +12 per matched fixed position
//   - present:     +6 per present letter the word contains
//   - composition: up to +8 for common English letters (distinct letters only)
//   - vowels:      +4 when 20–60% of the letters are vowels
//
// The total is clipped to [0, 100] and rounded to two decimals. It is a
// relative figure for display, not a probability.

package rank

import (
	"math"
	"sort"
	"strings"

	"github.com/robalobadob/wordle/apps/go-solver/internal/constraints"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

const (
	// Unlimited asks Rank for every candidate at or above the minimum score
	// instead of a fixed count.
	Unlimited = -1

	// DefaultLimit applies when the caller passes 0.
	DefaultLimit = 20

	MaxScore = 100.0

	fixedBonus       = 12.0
	presentBonus     = 6.0
	compositionBonus = 8.0
	vowelBonus       = 4.0
)

// DefaultMinScore is the threshold used with Unlimited.
var DefaultMinScore = 10.0

// Candidate is a corpus word with its frequency weight.
type Candidate struct {
	Word      string  `json:"word"`
	Frequency float64 `json:"frequency"`
}

// Solution is a ranked word.
type Solution struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

// Options tune RankWith.
type Options struct {
	Limit    int     // >0 truncates, 0 means DefaultLimit, Unlimited (<0) uses MinScore
	MinScore float64 // threshold for Unlimited
}

// English letter frequencies in percent, A..Z.
var letterFreq = [26]float64{
	8.2, 1.5, 2.8, 4.3, 12.7, 2.2, 2.0, 6.1, 7.0, 0.15, 0.8, 4.0, 2.4,
	6.7, 7.5, 1.9, 0.1, 6.0, 6.3, 9.1, 2.8, 1.0, 2.4, 0.15, 2.0, 0.07,
}

const maxLetterFreq = 12.7

// Score computes the heuristic score for one word.
func Score(word string, frequency float64, c constraints.WordConstraints) float64 {
	if frequency < 0 || math.IsNaN(frequency) {
		frequency = 0
	}
	score := 10 * math.Log10(1+frequency)

	for p, l := range c.CorrectPositions {
		if p < len(word) && feedback.LetterAt(word, p) == l {
			score += fixedBonus
		}
	}
	upper := strings.ToUpper(word)
	for l := range c.PresentLetters {
		if strings.IndexByte(upper, byte(l)) >= 0 {
			score += presentBonus
		}
	}

	score += composition(word) + vowelBalance(word)
	return clip(math.Round(score*100) / 100)
}

func composition(word string) float64 {
	if word == "" {
		return 0
	}
	var seen [26]bool
	var sum float64
	for i := 0; i < len(word); i++ {
		l := feedback.LetterAt(word, i)
		if l == 0 || seen[l.Index()] {
			continue
		}
		seen[l.Index()] = true
		sum += letterFreq[l.Index()]
	}
	return compositionBonus * sum / (maxLetterFreq * float64(len(word)))
}

func vowelBalance(word string) float64 {
	if word == "" {
		return 0
	}
	vowels := 0
	for i := 0; i < len(word); i++ {
		switch feedback.LetterAt(word, i) {
		case 'A', 'E', 'I', 'O', 'U':
			vowels++
		}
	}
	ratio := float64(vowels) / float64(len(word))
	if ratio >= 0.2 && ratio <= 0.6 {
		return vowelBonus
	}
	return 0
}

func clip(s float64) float64 {
	return math.Max(0, math.Min(MaxScore, s))
}

// Rank scores candidates and returns them best first, using DefaultMinScore
// when limit is Unlimited.
func Rank(cands []Candidate, c constraints.WordConstraints, limit int) []Solution {
	return RankWith(cands, c, Options{Limit: limit, MinScore: DefaultMinScore})
}

// RankWith scores candidates and returns them best first. Ties keep input
// order so identical input always ranks identically.
func RankWith(cands []Candidate, c constraints.WordConstraints, opts Options) []Solution {
	out := make([]Solution, len(cands))
	for i, cand := range cands {
		out[i] = Solution{Word: cand.Word, Score: Score(cand.Word, cand.Frequency, c)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	if opts.Limit < 0 {
		n := sort.Search(len(out), func(i int) bool { return out[i].Score < opts.MinScore })
		return out[:n]
	}
	limit := opts.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
