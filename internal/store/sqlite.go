// internal/store/sqlite.go
//
// SQLite Backend.
// Responsibilities:
//   - Opening the database file with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying the embedded migrations (idempotent, recorded in _migrations).
//   - Reading and writing the single-row sessions and lifetime_stats tables.
//   - Recording dealt daily puzzles in daily_results, one row per date.
//
// List-shaped fields (guesses, distribution) are stored as JSON text.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle/engine/internal/daily"
	"github.com/robalobadob/wordle/engine/internal/game"
	"github.com/robalobadob/wordle/engine/internal/stats"
)

type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if missing) the database at dsn and migrates it.
func OpenSQLite(dsn string, log zerolog.Logger) (Backend, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(db, migrationFS, "migrations", log); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func openDB(dsn string) (*sql.DB, error) {
	// Ensure directory exists for data/wordle.db, etc.
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	// PRAGMAs are per connection; one writer is all the engine needs.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

func (s *sqliteStore) LoadSession(ctx context.Context) (SessionRecord, bool, error) {
	var (
		rec       SessionRecord
		guesses   string
		outcome   string
		rowAt     sql.NullInt64
		recorded  bool
		updatedMs int64
	)
	err := s.db.QueryRowContext(ctx, `
        SELECT game_id, solution_encoded, guesses, outcome, row_at_outcome,
               active_row, active_column, stats_recorded, updated_at
        FROM sessions WHERE id = 1`,
	).Scan(&rec.GameID, &rec.SolutionEncoded, &guesses, &outcome, &rowAt,
		&rec.ActiveRow, &rec.ActiveColumn, &recorded, &updatedMs)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRecord{}, false, nil
	}
	if err != nil {
		return SessionRecord{}, false, fmt.Errorf("query session: %w", err)
	}

	if err := json.Unmarshal([]byte(guesses), &rec.SubmittedGuesses); err != nil {
		_ = s.ClearSession(ctx)
		return SessionRecord{}, false, fmt.Errorf("%w: session guesses: %v", ErrCorrupt, err)
	}
	if rec.SubmittedGuesses == nil {
		rec.SubmittedGuesses = []string{}
	}
	rec.Outcome = game.Phase(outcome)
	if rowAt.Valid {
		row := int(rowAt.Int64)
		rec.RowIndexAtOutcome = &row
	}
	rec.StatsRecorded = recorded
	rec.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return rec, true, nil
}

func (s *sqliteStore) SaveSession(ctx context.Context, rec SessionRecord) error {
	guesses := rec.SubmittedGuesses
	if guesses == nil {
		guesses = []string{}
	}
	gj, err := json.Marshal(guesses)
	if err != nil {
		return fmt.Errorf("marshal guesses: %w", err)
	}
	var rowAt sql.NullInt64
	if rec.RowIndexAtOutcome != nil {
		rowAt = sql.NullInt64{Int64: int64(*rec.RowIndexAtOutcome), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
        INSERT OR REPLACE INTO sessions
            (id, game_id, solution_encoded, guesses, outcome, row_at_outcome,
             active_row, active_column, stats_recorded, updated_at)
        VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.GameID, rec.SolutionEncoded, string(gj), string(rec.Outcome), rowAt,
		rec.ActiveRow, rec.ActiveColumn, rec.StatsRecorded, rec.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *sqliteStore) ClearSession(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = 1`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *sqliteStore) LoadStats(ctx context.Context) (stats.Lifetime, bool, error) {
	var (
		l    stats.Lifetime
		dist string
	)
	err := s.db.QueryRowContext(ctx, `
        SELECT games_played, games_won, current_streak, max_streak, win_percentage,
               distribution, last_game_id
        FROM lifetime_stats WHERE id = 1`,
	).Scan(&l.GamesPlayed, &l.GamesWon, &l.CurrentStreak, &l.MaxStreak, &l.WinPercentage,
		&dist, &l.LastGameID)
	if errors.Is(err, sql.ErrNoRows) {
		return stats.Lifetime{}, false, nil
	}
	if err != nil {
		return stats.Lifetime{}, false, fmt.Errorf("query stats: %w", err)
	}
	if err := json.Unmarshal([]byte(dist), &l.Distribution); err != nil {
		return stats.Lifetime{}, false, fmt.Errorf("%w: distribution: %v", ErrCorrupt, err)
	}
	return l, true, nil
}

func (s *sqliteStore) SaveStats(ctx context.Context, l stats.Lifetime) error {
	dist, err := json.Marshal(l.Distribution)
	if err != nil {
		return fmt.Errorf("marshal distribution: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT OR REPLACE INTO lifetime_stats
            (id, games_played, games_won, current_streak, max_streak, win_percentage,
             distribution, last_game_id)
        VALUES (1, ?, ?, ?, ?, ?, ?, ?)`,
		l.GamesPlayed, l.GamesWon, l.CurrentStreak, l.MaxStreak, l.WinPercentage,
		string(dist), l.LastGameID,
	)
	if err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

func (s *sqliteStore) AlreadyPlayed(ctx context.Context, date string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE date = ?`, date,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query daily_results: %w", err)
	}
	return n > 0, nil
}

func (s *sqliteStore) InsertResult(ctx context.Context, r daily.Result) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO daily_results (date, word_index, game_id)
        VALUES (?, ?, ?)`,
		r.Date, r.WordIndex, r.GameID,
	)
	if err != nil {
		return fmt.Errorf("insert daily result: %w", err)
	}
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
