// internal/feedback/score.go
//
// Feedback generator: evaluates a guess against a known answer with the
// classic two-pass Wordle algorithm. The solver never needs this to infer
// constraints, but the API exposes it (POST /score) and the tests use it as
// an oracle for what real feedback looks like.

package feedback

import (
	"fmt"
	"strings"
)

// Score compares guess against answer and returns the resulting tiles.
//
// Pass 1:
//   - Mark exact matches as Correct.
//   - Count remaining (non-correct) answer letters.
//
// Pass 2:
//   - For each non-correct guess letter: if there is remaining count for that
//     letter, mark Present and decrement the count; otherwise mark Absent.
//
// This yields exactly as many non-absent tiles per letter as the answer holds,
// which is the convention the constraint accumulator relies on.
func Score(answer, guess string) (GuessRecord, error) {
	answer = strings.TrimSpace(answer)
	guess = strings.TrimSpace(guess)
	if len(guess) != len(answer) {
		return nil, &LengthError{Got: len(guess), Want: len(answer)}
	}
	n := len(guess)
	res := make(GuessRecord, n)
	var counts [26]int

	for i := 0; i < n; i++ {
		a, ok := ToLetter(rune(answer[i]))
		if !ok {
			return nil, fmt.Errorf("answer position %d: %w", i, ErrInvalidLetter)
		}
		g, ok := ToLetter(rune(guess[i]))
		if !ok {
			return nil, fmt.Errorf("guess position %d: %w", i, ErrInvalidLetter)
		}
		res[i].Letter = g
		if g == a {
			res[i].State = Correct
		} else {
			counts[a.Index()]++
		}
	}

	for i := 0; i < n; i++ {
		if res[i].State == Correct {
			continue
		}
		j := res[i].Letter.Index()
		if counts[j] > 0 {
			res[i].State = Present
			counts[j]--
		} else {
			res[i].State = Absent
		}
	}
	return res, nil
}
