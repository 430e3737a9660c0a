package main

import (
	"encoding/json"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/rank"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func newSolveCmd(corpus func() (*words.List, error)) *cobra.Command {
	var (
		guesses    []string
		exclusions []string
		length     int
		limit      int
		workers    int
		minScore   float64
		asJSON     bool
		progress   bool
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "List candidate words consistent with the given feedback",
		Example: `  wordle-solve solve --guess CRANE:byybg
  wordle-solve solve --guess SPOOL:bbgby --exclude L:0 --limit -1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := parseHistory(guesses)
			if err != nil {
				return err
			}
			excl, err := parseExclusions(exclusions)
			if err != nil {
				return err
			}
			list, err := corpus()
			if err != nil {
				return err
			}

			req := solver.Request{History: history, Length: length, Exclusions: excl, Limit: limit}
			n, err := req.Validate()
			if err != nil {
				return err
			}

			opts := []solver.Option{solver.WithWorkers(workers), solver.WithMinScore(minScore)}
			if progress {
				bar := progressbar.NewOptions(len(list.Candidates(n)),
					progressbar.OptionSetWriter(cmd.ErrOrStderr()),
					progressbar.OptionSetDescription("checking"),
					progressbar.OptionClearOnFinish(),
				)
				defer bar.Finish()
				opts = append(opts, solver.WithProgress(func(checked int) { _ = bar.Add(checked) }))
			}

			res, err := solver.New(list, opts...).Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			if res.Empty() {
				fmt.Fprintf(out, "no candidates among %d %d-letter words\n", res.Considered, res.Length)
				return nil
			}
			fmt.Fprintf(out, "%d of %d candidates remain\n", res.Survivors, res.Considered)
			for i, s := range res.Solutions {
				fmt.Fprintf(out, "%3d  %-*s  %6.2f\n", i+1, res.Length, s.Word, s.Score)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringArrayVarP(&guesses, "guess", "g", nil, "guess feedback as WORD:pattern (g=correct, y=present, b=absent); repeatable")
	f.StringArrayVarP(&exclusions, "exclude", "x", nil, "manual exclusion LETTER:pos[,pos...] (0-based); repeatable")
	f.IntVar(&length, "length", 0, "word length when no guesses are given")
	f.IntVarP(&limit, "limit", "n", rank.DefaultLimit, "maximum results; -1 returns every word at or above --min-score")
	f.IntVar(&workers, "workers", 0, "parallel validation workers (0 = GOMAXPROCS)")
	f.Float64Var(&minScore, "min-score", rank.DefaultMinScore, "score threshold used with --limit -1")
	f.BoolVar(&asJSON, "json", false, "print the full analysis as JSON")
	f.BoolVar(&progress, "progress", false, "show a progress bar on stderr")
	return cmd
}
