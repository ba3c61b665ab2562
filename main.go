// main.go
//
// Terminal front end for the puzzle engine.
// Responsibilities:
//   - Load .env and configuration, set up logging.
//   - Build the dictionary and open the configured storage backend, falling back
//     to memory if it cannot be opened.
//   - Run the interactive loop until :quit or end of input.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/engine/internal/config"
	"github.com/robalobadob/wordle/engine/internal/engine"
	"github.com/robalobadob/wordle/engine/internal/store"
	"github.com/robalobadob/wordle/engine/internal/words"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	zerolog.SetGlobalLevel(cfg.Level())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	dict, err := words.Load(cfg.AnswersFile, cfg.AllowedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}
	answers, allowed := dict.Stats()
	log.Debug().Int("answers", answers).Int("allowed", allowed).Msg("word lists loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, openErr := openBackend(cfg, log.Logger)
	if openErr != nil {
		log.Warn().Err(openErr).Str("store", string(cfg.Store)).Msg("storage unavailable, playing in memory")
		backend = store.NewMemory()
	}
	defer backend.Close()

	opts := []engine.Option{engine.WithLogger(log.Logger)}
	if openErr != nil {
		opts = append(opts, engine.WithStorageError(openErr))
	}
	if cfg.DailySalt != "" {
		opts = append(opts, engine.WithDaily(cfg.DailySalt, nil))
	}
	eng := engine.New(ctx, dict, backend, opts...)

	if err := play(ctx, eng, os.Stdin, os.Stdout); err != nil {
		log.Error().Err(err).Msg("input loop exited")
	}
}

func openBackend(cfg config.Config, l zerolog.Logger) (store.Backend, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		return store.OpenSQLite(cfg.DBPath, l)
	case config.StoreFile:
		return store.OpenFile(cfg.DataDir)
	default:
		return store.NewMemory(), nil
	}
}
