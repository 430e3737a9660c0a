package words

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/internal/constraints"
	"github.com/robalobadob/wordle/apps/go-solver/internal/rank"
)

func TestParse(t *testing.T) {
	in := `# comment
CRANE 120
slate,45.5
raise	7

ab3cd 10
a
crane 999
toolongtobeawordinthislist 1
spool
`
	l, err := Parse(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []rank.Candidate{
		{Word: "crane", Frequency: 120},
		{Word: "slate", Frequency: 45.5},
		{Word: "raise", Frequency: 7},
		{Word: "spool", Frequency: 1},
	}, l.Candidates(5))
	assert.Empty(t, l.Candidates(4))
	assert.Equal(t, Stats{Words: 4, ByLength: map[int]int{5: 4}, Lengths: []int{5}}, l.Stats())
	assert.Equal(t, []int{5}, l.Lengths())
}

func TestParseRejectsBadFrequency(t *testing.T) {
	_, err := Parse(strings.NewReader("crane 12\nslate lots\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	for _, bad := range []string{"crane -1", "crane NaN", "crane nan", "crane +Inf", "crane -Inf"} {
		_, err = Parse(strings.NewReader(bad + "\nraise 5\n"))
		assert.Error(t, err, bad)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("able 3\nbake\nbaker 2\n"), 0o644))

	l, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, l.Candidates(4), 2)
	assert.Len(t, l.Candidates(5), 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestFromWords(t *testing.T) {
	l := FromWords("Raise", "arose", "earns")
	assert.Equal(t, []rank.Candidate{
		{Word: "raise", Frequency: 1},
		{Word: "arose", Frequency: 1},
		{Word: "earns", Frequency: 1},
	}, l.Candidates(5))
}

func TestEmbeddedDefaults(t *testing.T) {
	l, err := Parse(strings.NewReader(embeddedWords))
	require.NoError(t, err)
	assert.Greater(t, len(l.Candidates(5)), 400)
	assert.NotEmpty(t, l.Candidates(4))
	assert.NotEmpty(t, l.Candidates(6))

	d := Default()
	assert.Equal(t, l.Stats(), d.Stats())
	assert.Equal(t, []int{4, 5, 6}, d.Stats().Lengths)
}

func TestEmbeddedDefaultsAreUnweighted(t *testing.T) {
	for _, n := range Default().Lengths() {
		for _, c := range Default().Candidates(n) {
			require.Equal(t, 1.0, c.Frequency, c.Word)
		}
	}

	// With uniform frequency, common-letter words lead an unconstrained ranking.
	got := rank.Rank(FromWords("align", "about", "fuzzy").Candidates(5), constraints.New(), rank.Unlimited)
	require.Len(t, got, 2)
	assert.Equal(t, "about", got[0].Word)
	assert.Equal(t, "align", got[1].Word)
}
