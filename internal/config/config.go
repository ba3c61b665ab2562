// Package config reads process configuration from environment variables.
// A .env file, if present, is loaded by main before Load runs.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// StoreKind selects the persistence backend.
type StoreKind string

const (
	StoreSQLite StoreKind = "sqlite"
	StoreFile   StoreKind = "file"
	StoreMemory StoreKind = "memory"
)

// Config is everything the binary needs to wire an engine.
type Config struct {
	Store   StoreKind `env:"WORDLE_STORE" envDefault:"sqlite"`
	DBPath  string    `env:"WORDLE_DB_PATH" envDefault:"data/wordle.db"`
	DataDir string    `env:"WORDLE_DATA_DIR" envDefault:"data"`

	// Word list overrides; empty means the embedded lists.
	AnswersFile string `env:"WORDS_ANSWERS_FILE"`
	AllowedFile string `env:"WORDS_ALLOWED_FILE"`

	// DailySalt enables daily mode when set.
	DailySalt string `env:"WORDLE_DAILY_SALT"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses and validates the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown store kinds and log levels.
func (c Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreFile, StoreMemory:
	default:
		return fmt.Errorf("WORDLE_STORE: unknown backend %q (want sqlite, file or memory)", c.Store)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// Level returns the configured log level, falling back to info.
func (c Config) Level() zerolog.Level {
	if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil {
		return lvl
	}
	return zerolog.InfoLevel
}
