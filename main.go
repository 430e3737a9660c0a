package main

import (
	"io"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/config"
	"github.com/robalobadob/wordle/apps/go-solver/internal/httpserver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func main() {
	cfg := config.Load()
	cfg.ApplyLogLevel()

	if err := words.Init(cfg.WordsFile); err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}
	corpus := words.Default()
	log.Info().Interface("words", corpus.Stats()).Msg("word list loaded")

	var st store.Store
	if cfg.DatabasePath != "" {
		sq, err := store.OpenSQLite(cfg.DatabasePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("failed to open session database")
		}
		st = sq
	} else {
		st = store.NewMemoryStore()
	}

	eng := solver.New(corpus,
		solver.WithWorkers(cfg.Workers),
		solver.WithMinScore(cfg.MinScore),
	)
	srv := httpserver.New(eng, corpus, st, httpserver.Options{
		ClientOrigin: cfg.ClientOrigin,
		JWTSecret:    cfg.JWTSecret,
		SessionTTL:   cfg.SessionTTL,
		ResultLimit:  cfg.ResultLimit,
	})

	log.Info().Str("port", cfg.Port).Msg("starting wordle solver")
	if err := serve(func() error { return srv.Start(":" + cfg.Port) }, st); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// serve runs start and closes the store once it returns.
func serve(start func() error, st io.Closer) error {
	err := start()
	if cerr := st.Close(); cerr != nil {
		log.Error().Err(cerr).Msg("failed to close session store")
	}
	return err
}
