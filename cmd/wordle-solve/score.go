package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/constraints"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/match"
	"github.com/robalobadob/wordle/apps/go-solver/internal/rank"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "score ANSWER GUESS",
		Short:   "Print the feedback a guess would receive against an answer",
		Example: "  wordle-solve score ROBOT SPOOL",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := feedback.Score(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s:%s\n", g.Word(), g.Pattern())
			return nil
		},
	}
}

func newExplainCmd(corpus func() (*words.List, error)) *cobra.Command {
	var guesses, exclusions []string
	cmd := &cobra.Command{
		Use:     "explain WORD",
		Short:   "Show whether a word survives the feedback, and why not",
		Example: "  wordle-solve explain AROSE --guess CRANE:byybg",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := parseHistory(guesses)
			if err != nil {
				return err
			}
			excl, err := parseExclusions(exclusions)
			if err != nil {
				return err
			}
			word := strings.ToLower(args[0])
			req := solver.Request{History: history, Length: len(word), Exclusions: excl}
			if _, err := req.Validate(); err != nil {
				return err
			}
			c := constraints.Fold(history)
			if len(excl) > 0 {
				c = c.WithExclusions(excl)
			}

			freq := 0.0
			if list, err := corpus(); err == nil {
				for _, cand := range list.Candidates(len(word)) {
					if cand.Word == word {
						freq = cand.Frequency
						break
					}
				}
			}

			out := cmd.OutOrStdout()
			if rule := match.Check(word, c); rule != match.RuleNone {
				fmt.Fprintf(out, "%s: rejected (%s)\n", strings.ToUpper(word), rule)
			} else {
				fmt.Fprintf(out, "%s: consistent\n", strings.ToUpper(word))
			}
			fmt.Fprintf(out, "score: %.2f\n", rank.Score(word, freq, c))
			for _, cf := range c.Conflicts {
				fmt.Fprintf(out, "conflict: guess %d %s %s\n", cf.Guess, cf.Letter, cf.Kind)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&guesses, "guess", "g", nil, "guess feedback as WORD:pattern; repeatable")
	cmd.Flags().StringArrayVarP(&exclusions, "exclude", "x", nil, "manual exclusion LETTER:pos[,pos...] (0-based); repeatable")
	return cmd
}
