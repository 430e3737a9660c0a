// internal/solver/solver.go
//
// Analysis pipeline:
//   guess history → constraints.Fold → (+ manual exclusions)
//   → match.IsConsistent over the corpus, in parallel chunks
//   → rank.RankWith over the survivors.
//
// The pipeline holds no state between calls. The corpus is shared and
// read-only; everything else is built per request.

package solver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle/apps/go-solver/internal/constraints"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/match"
	"github.com/robalobadob/wordle/apps/go-solver/internal/metrics"
	"github.com/robalobadob/wordle/apps/go-solver/internal/rank"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

const defaultChunk = 512

var (
	ErrNoLength     = errors.New("solver: word length unknown (no guesses and no length)")
	ErrBadLength    = errors.New("solver: word length out of range")
	ErrBadExclusion = errors.New("solver: exclusion position out of range")
)

// Request describes one analysis.
type Request struct {
	History    []feedback.GuessRecord
	Length     int                      // 0 means the length of the first record
	Exclusions map[feedback.Letter][]int // manual letter -> positions overlay
	Limit      int                      // see rank.Options.Limit
}

// Validate checks the request shape and returns the word length.
// Records are expected to come from the feedback constructors.
func (r Request) Validate() (int, error) {
	n := r.Length
	if n == 0 {
		if len(r.History) == 0 {
			return 0, ErrNoLength
		}
		n = len(r.History[0])
	}
	if n < words.MinLength || n > words.MaxLength {
		return 0, fmt.Errorf("%w: %d", ErrBadLength, n)
	}
	for i, g := range r.History {
		if len(g) != n {
			return 0, fmt.Errorf("guess %d: %w", i, &feedback.LengthError{Got: len(g), Want: n})
		}
	}
	for l, positions := range r.Exclusions {
		for _, p := range positions {
			if p < 0 || p >= n {
				return 0, fmt.Errorf("%w: %s at %d (length %d)", ErrBadExclusion, l, p, n)
			}
		}
	}
	return n, nil
}

// Result is the outcome of one analysis. An empty Solutions slice with a
// nil error means no candidate is consistent with the feedback.
type Result struct {
	Length      int                         `json:"length"`
	Constraints constraints.WordConstraints `json:"constraints"`
	Solutions   []rank.Solution             `json:"solutions"`
	Considered  int                         `json:"considered"`
	Survivors   int                         `json:"survivors"`
}

// Empty reports whether no candidate survived validation.
func (r *Result) Empty() bool { return r.Survivors == 0 }

// Engine runs analyses against a corpus.
type Engine struct {
	corpus   words.Corpus
	workers  int
	chunk    int
	minScore float64
	progress func(checked int)
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds the number of concurrent validation chunks.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithChunkSize sets how many candidates one worker validates at a time.
func WithChunkSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.chunk = n
		}
	}
}

// WithMinScore sets the threshold used when Limit is rank.Unlimited.
func WithMinScore(s float64) Option {
	return func(e *Engine) { e.minScore = s }
}

// WithProgress registers a callback invoked after each chunk with the number
// of candidates it checked. It may be called concurrently.
func WithProgress(fn func(checked int)) Option {
	return func(e *Engine) { e.progress = fn }
}

// New builds an Engine over corpus.
func New(corpus words.Corpus, opts ...Option) *Engine {
	e := &Engine{
		corpus:   corpus,
		workers:  runtime.GOMAXPROCS(0),
		chunk:    defaultChunk,
		minScore: rank.DefaultMinScore,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Analyze folds the history, filters the corpus and ranks the survivors.
func (e *Engine) Analyze(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	res, err := e.analyze(ctx, req)
	n := 0
	if res != nil {
		n = res.Survivors
	}
	metrics.ObserveAnalysis(n, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Int("guesses", len(req.History)).
		Int("length", res.Length).
		Int("considered", res.Considered).
		Int("survivors", res.Survivors).
		Dur("elapsed", time.Since(start)).
		Msg("analysis complete")
	return res, nil
}

func (e *Engine) analyze(ctx context.Context, req Request) (*Result, error) {
	n, err := req.Validate()
	if err != nil {
		return nil, err
	}
	c := constraints.Fold(req.History)
	if len(req.Exclusions) > 0 {
		c = c.WithExclusions(req.Exclusions)
	}

	cands := e.corpus.Candidates(n)
	survivors, err := e.filter(ctx, cands, c)
	if err != nil {
		return nil, err
	}
	return &Result{
		Length:      n,
		Constraints: c,
		Solutions:   rank.RankWith(survivors, c, rank.Options{Limit: req.Limit, MinScore: e.minScore}),
		Considered:  len(cands),
		Survivors:   len(survivors),
	}, nil
}

// filter returns the consistent candidates in corpus order.
func (e *Engine) filter(ctx context.Context, cands []rank.Candidate, c constraints.WordConstraints) ([]rank.Candidate, error) {
	keep := make([]bool, len(cands))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for lo := 0; lo < len(cands); lo += e.chunk {
		if gctx.Err() != nil {
			break
		}
		lo, hi := lo, min(lo+e.chunk, len(cands))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				keep[i] = match.IsConsistent(cands[i].Word, c)
			}
			if e.progress != nil {
				e.progress(hi - lo)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]rank.Candidate, 0, len(cands)/4)
	for i, ok := range keep {
		if ok {
			out = append(out, cands[i])
		}
	}
	return out, nil
}
