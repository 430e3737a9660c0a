// Command wordle-solve analyzes Wordle feedback from the terminal.
//
//	wordle-solve solve --guess CRANE:byybg --exclude R:0
//	wordle-solve score ROBOT SPOOL
//	wordle-solve explain RAISE --guess CRANE:byybg
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logLevel  string
		wordsFile string
	)
	root := &cobra.Command{
		Use:          "wordle-solve",
		Short:        "Infer constraints from Wordle feedback and rank candidate words",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
			lvl, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("log level %q: %w", logLevel, err)
			}
			zerolog.SetGlobalLevel(lvl)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "zerolog level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&wordsFile, "words", "", "word list file (word[,frequency] per line); default is the embedded list")

	corpus := func() (*words.List, error) {
		if wordsFile == "" {
			return words.Default(), nil
		}
		return words.LoadFile(wordsFile)
	}

	root.AddCommand(newSolveCmd(corpus), newScoreCmd(), newExplainCmd(corpus))
	return root
}

// parseHistory parses repeated WORD:pattern flags.
func parseHistory(specs []string) ([]feedback.GuessRecord, error) {
	out := make([]feedback.GuessRecord, 0, len(specs))
	for _, s := range specs {
		g, err := feedback.ParseSpec(s)
		if err != nil {
			return nil, fmt.Errorf("--guess %s: %w", s, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// parseExclusions parses repeated LETTER:pos[,pos...] flags.
func parseExclusions(specs []string) (map[feedback.Letter][]int, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make(map[feedback.Letter][]int, len(specs))
	for _, s := range specs {
		letter, list, ok := strings.Cut(s, ":")
		if !ok || len(letter) != 1 || list == "" {
			return nil, fmt.Errorf("--exclude %q: want LETTER:pos[,pos...]", s)
		}
		l, ok := feedback.ToLetter(rune(letter[0]))
		if !ok {
			return nil, fmt.Errorf("--exclude %q: %w", s, feedback.ErrInvalidLetter)
		}
		for _, p := range strings.Split(list, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("--exclude %q: bad position %q", s, p)
			}
			out[l] = append(out[l], n)
		}
	}
	return out, nil
}
