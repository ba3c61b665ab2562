// internal/store/records.go
//
// Persistence layer for the puzzle engine.
//
// Two owned records are kept, each a single slot:
//   - SessionRecord: the game in progress (or just finished), written after every
//     accepted guess and deleted when a new game starts.
//   - stats.Lifetime: counters across all games.
//
// Backends: memory (ephemeral), file (JSON documents in a directory), sqlite.
// All of them are safe for concurrent use.
package store

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/robalobadob/wordle/engine/internal/daily"
	"github.com/robalobadob/wordle/engine/internal/game"
	"github.com/robalobadob/wordle/engine/internal/stats"
)

// ErrCorrupt is returned by a load when the stored bytes cannot be decoded.
// Backends that can do so drop the bad record before returning it.
var ErrCorrupt = errors.New("store: corrupt record")

// SessionRecord is the durable projection of a game. Partially typed rows are
// never persisted, so ActiveColumn is always 0 in a well-formed record.
type SessionRecord struct {
	GameID            string     `json:"gameId"`
	SolutionEncoded   string     `json:"solutionEncoded"`
	SubmittedGuesses  []string   `json:"submittedGuesses"`
	Outcome           game.Phase `json:"outcome"`
	// RowIndexAtOutcome is the zero-based winning row; nil unless Outcome is won.
	RowIndexAtOutcome *int       `json:"rowIndexAtOutcome,omitempty"`
	ActiveRow         int        `json:"activeRow"`
	ActiveColumn      int        `json:"activeColumn"`
	// StatsRecorded is set once the finished game has been counted in the lifetime stats.
	StatsRecorded     bool       `json:"statsRecorded"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (r SessionRecord) clone() SessionRecord {
	r.SubmittedGuesses = slices.Clone(r.SubmittedGuesses)
	if r.RowIndexAtOutcome != nil {
		row := *r.RowIndexAtOutcome
		r.RowIndexAtOutcome = &row
	}
	return r
}

// Backend stores both records. LoadSession reports found=false when no game is saved.
type Backend interface {
	LoadSession(ctx context.Context) (rec SessionRecord, found bool, err error)
	SaveSession(ctx context.Context, rec SessionRecord) error
	ClearSession(ctx context.Context) error

	stats.Store
	daily.Ledger

	Close() error
}
