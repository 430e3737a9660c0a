// internal/words/words.go
//
// Candidate corpus for the solver.
//
// Responsibilities:
//   - Load (word, frequency) pairs from a file or fall back to the embedded default list.
//   - Normalize and filter entries, then index them by word length.
//   - Serve length-filtered candidates to the solver.
//
// File format, one entry per line:
//   word            frequency defaults to 1
//   word 1234       separated by spaces, tabs or a comma
//   # comment
//
// Constraints:
//   • Words must be 2–15 alphabetic letters; anything else is skipped.
//   • Words are lowercased; the first occurrence of a duplicate wins.
//   • Frequencies must be finite and non-negative.
//   • The package-level list is initialized once (sync.Once).

package words

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/robalobadob/wordle/apps/go-solver/internal/rank"
)

const (
	MinLength = 2
	MaxLength = 15
)

//go:embed default_words.txt
var embeddedWords string

// Corpus supplies candidate words for a given length.
type Corpus interface {
	// Candidates returns the words of exactly length letters in load order.
	// The returned slice is shared and must not be modified.
	Candidates(length int) []rank.Candidate
	Stats() Stats
}

// Stats summarizes a loaded corpus.
type Stats struct {
	Words    int         `json:"words"`
	ByLength map[int]int `json:"byLength"`
	Lengths  []int       `json:"lengths"`
}

// List is an immutable, length-indexed corpus.
type List struct {
	byLength map[int][]rank.Candidate
	total    int
}

// Parse reads a word list. Malformed words are skipped; a malformed
// frequency is an error.
func Parse(r io.Reader) (*List, error) {
	l := &List{byLength: make(map[int][]rank.Candidate)}
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '\t' || r == ',' })
		if len(fields) == 0 {
			continue
		}
		w := strings.ToLower(fields[0])
		if len(w) < MinLength || len(w) > MaxLength || !isAlpha(w) {
			continue
		}
		freq := 1.0
		if len(fields) > 1 {
			f, err := strconv.ParseFloat(fields[1], 64)
			if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, fmt.Errorf("words: line %d: bad frequency %q", line, fields[1])
			}
			freq = f
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		l.byLength[len(w)] = append(l.byLength[len(w)], rank.Candidate{Word: w, Frequency: freq})
		l.total++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return l, nil
}

// LoadFile parses the word list at path.
func LoadFile(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	l, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// FromWords builds a list from plain words with a constant frequency of 1.
func FromWords(ws ...string) *List {
	l, _ := Parse(strings.NewReader(strings.Join(ws, "\n")))
	return l
}

// Candidates implements Corpus.
func (l *List) Candidates(length int) []rank.Candidate {
	return l.byLength[length]
}

// Stats implements Corpus.
func (l *List) Stats() Stats {
	st := Stats{Words: l.total, ByLength: make(map[int]int, len(l.byLength)), Lengths: l.Lengths()}
	for n, ws := range l.byLength {
		st.ByLength[n] = len(ws)
	}
	return st
}

// Lengths returns the word lengths present, ascending.
func (l *List) Lengths() []int {
	out := make([]int, 0, len(l.byLength))
	for n := range l.byLength {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

var (
	initOnce    sync.Once
	defaultList *List
	initialErr  error
)

// Init loads the package-level list exactly once: from path when set,
// otherwise from the embedded defaults. Returns an error if the list ends
// up empty.
func Init(path string) error {
	initOnce.Do(func() {
		if path != "" {
			defaultList, initialErr = LoadFile(path)
		} else {
			defaultList, initialErr = Parse(strings.NewReader(embeddedWords))
		}
		if initialErr == nil && defaultList.total == 0 {
			initialErr = errors.New("words: word list is empty")
		}
	})
	return initialErr
}

// Default returns the package-level list, loading the embedded defaults if
// Init was never called.
func Default() *List {
	if err := Init(""); err != nil || defaultList == nil {
		return &List{byLength: map[int][]rank.Candidate{}}
	}
	return defaultList
}
