package rank

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/internal/constraints"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

func craneConstraints(t *testing.T) constraints.WordConstraints {
	t.Helper()
	g, err := feedback.ParseSpec("CRANE:byybg")
	require.NoError(t, err)
	return constraints.Fold([]feedback.GuessRecord{g})
}

func TestScoreComponents(t *testing.T) {
	empty := constraints.New()
	c := craneConstraints(t)

	// Frequency is log-compressed: 1000x the frequency is far less than 1000x the score.
	low := Score("raise", 10, empty)
	high := Score("raise", 10000, empty)
	assert.Greater(t, high, low)
	assert.InDelta(t, 29.59, high-low, 0.05)

	// Fixed and present matches add their bonuses.
	assert.InDelta(t, Score("raise", 10, empty)+12+3*6, Score("raise", 10, c), 0.01)

	// Vowel-starved words lose the balance bonus.
	assert.Greater(t, Score("stare", 0, empty), Score("crwth", 0, empty))
}

func TestScoreIsClipped(t *testing.T) {
	c := craneConstraints(t)
	assert.Equal(t, MaxScore, Score("raise", 1e12, c))
	assert.Equal(t, 0.0, Score("", -5, constraints.New()))
	assert.GreaterOrEqual(t, Score("zzzzz", -100, constraints.New()), 0.0)
}

func TestScoreTreatsNaNFrequencyAsZero(t *testing.T) {
	empty := constraints.New()
	got := Score("crane", math.NaN(), empty)
	assert.False(t, math.IsNaN(got))
	assert.Equal(t, Score("crane", 0, empty), got)
	assert.Equal(t, MaxScore, Score("crane", math.Inf(1), empty))

	ranked := RankWith([]Candidate{
		{Word: "crane", Frequency: math.NaN()},
		{Word: "stare", Frequency: 100},
	}, empty, Options{Limit: Unlimited, MinScore: 0})
	require.Len(t, ranked, 2)
	assert.Equal(t, "stare", ranked[0].Word)
	for _, s := range ranked {
		assert.True(t, s.Score >= 0 && s.Score <= MaxScore, "%s scored %v", s.Word, s.Score)
	}
}

func TestRankOrdersAndTruncates(t *testing.T) {
	c := craneConstraints(t)
	cands := []Candidate{
		{Word: "raree", Frequency: 1},
		{Word: "raise", Frequency: 5000},
		{Word: "rathe", Frequency: 30},
	}
	got := Rank(cands, c, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "raise", got[0].Word)
	assert.GreaterOrEqual(t, got[0].Score, got[1].Score)

	all := Rank(cands, c, 0)
	assert.Len(t, all, 3)
}

func TestRankIsStableAndDeterministic(t *testing.T) {
	c := constraints.New()
	cands := []Candidate{
		{Word: "abcde", Frequency: 7},
		{Word: "edcba", Frequency: 7},
		{Word: "bcdea", Frequency: 7},
	}
	first := Rank(cands, c, 10)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Rank(cands, c, 10))
	}
	// Anagrams score identically, so input order is kept.
	assert.Equal(t, []string{"abcde", "edcba", "bcdea"}, words(first))
}

func TestRankUnlimitedUsesThreshold(t *testing.T) {
	c := constraints.New()
	cands := []Candidate{
		{Word: "stare", Frequency: 100000},
		{Word: "xylyl", Frequency: 0},
		{Word: "crane", Frequency: 50000},
	}
	got := RankWith(cands, c, Options{Limit: Unlimited, MinScore: 20})
	assert.Equal(t, []string{"stare", "crane"}, words(got))

	got = RankWith(cands, c, Options{Limit: Unlimited, MinScore: 0})
	assert.Len(t, got, 3)

	assert.Empty(t, Rank(nil, c, Unlimited))
}

func words(s []Solution) []string {
	out := make([]string, len(s))
	for i, x := range s {
		out[i] = x.Word
	}
	return out
}
