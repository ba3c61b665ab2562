// Package session saves and resumes the game in progress.
//
// A game is persisted as a store.SessionRecord: the encoded solution plus the
// submitted guesses. Letter sets and the board are not stored; they are rebuilt by
// replaying the guesses, so a resumed game can never disagree with its own history.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle/engine/internal/game"
	"github.com/robalobadob/wordle/engine/internal/store"
	"github.com/robalobadob/wordle/engine/internal/words"
)

// ErrCorruptSession marks a stored record that cannot be turned back into a game.
var ErrCorruptSession = errors.New("session: corrupt record")

// Backend is the slice of store.Backend this package needs.
type Backend interface {
	LoadSession(ctx context.Context) (store.SessionRecord, bool, error)
	SaveSession(ctx context.Context, rec store.SessionRecord) error
	ClearSession(ctx context.Context) error
}

// Store converts between game.State and the durable record.
type Store struct {
	backend Backend
	dict    *words.Dictionary
	log     zerolog.Logger
	now     func() time.Time
}

// New returns a Store writing through b. dict must be the Dictionary the saved
// solutions were encoded with.
func New(b Backend, dict *words.Dictionary, log zerolog.Logger) *Store {
	return &Store{backend: b, dict: dict, log: log, now: time.Now}
}

// Resumed is a game read back from storage.
type Resumed struct {
	State *game.State
	// StatsRecorded reports whether a finished game was already counted.
	StatsRecorded bool
}

// Save persists the submitted part of st. Letters typed into the active row
// are not saved.
func (s *Store) Save(ctx context.Context, st *game.State, statsRecorded bool) error {
	rec, err := s.encode(st, statsRecorded)
	if err != nil {
		return err
	}
	if err := s.backend.SaveSession(ctx, rec); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns the saved game. A record that cannot be decoded is logged, cleared
// and reported as not found; an error means the backend itself failed.
func (s *Store) Load(ctx context.Context) (Resumed, bool, error) {
	rec, found, err := s.backend.LoadSession(ctx)
	if errors.Is(err, store.ErrCorrupt) {
		s.log.Warn().Err(err).Msg("saved session unreadable, starting fresh")
		return Resumed{}, false, s.Clear(ctx)
	}
	if err != nil {
		return Resumed{}, false, fmt.Errorf("load session: %w", err)
	}
	if !found {
		return Resumed{}, false, nil
	}

	st, err := s.decode(rec)
	if err != nil {
		s.log.Warn().Err(err).Str("game", rec.GameID).Msg("discarding corrupt session")
		return Resumed{}, false, s.Clear(ctx)
	}
	return Resumed{State: st, StatsRecorded: rec.StatsRecorded}, true, nil
}

// Clear deletes the saved game.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.ClearSession(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) encode(st *game.State, statsRecorded bool) (store.SessionRecord, error) {
	code, err := s.dict.EncodeSolution(st.Solution())
	if err != nil {
		return store.SessionRecord{}, fmt.Errorf("encode solution: %w", err)
	}
	o := st.Outcome()
	rec := store.SessionRecord{
		GameID:           st.ID(),
		SolutionEncoded:  code,
		SubmittedGuesses: st.Guesses(),
		Outcome:          o.Phase,
		ActiveRow:        st.Row(),
		ActiveColumn:     0,
		StatsRecorded:    statsRecorded,
		UpdatedAt:        s.now().UTC(),
	}
	if o.Phase == game.PhaseWon {
		row := o.Row
		rec.RowIndexAtOutcome = &row
	}
	return rec, nil
}

func (s *Store) decode(rec store.SessionRecord) (*game.State, error) {
	if rec.GameID == "" {
		return nil, fmt.Errorf("%w: missing game id", ErrCorruptSession)
	}
	solution, err := s.dict.DecodeSolution(rec.SolutionEncoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	if rec.ActiveRow != len(rec.SubmittedGuesses) || rec.ActiveColumn != 0 {
		return nil, fmt.Errorf("%w: cursor (%d,%d) does not match %d guesses",
			ErrCorruptSession, rec.ActiveRow, rec.ActiveColumn, len(rec.SubmittedGuesses))
	}

	st, err := game.Restore(rec.GameID, solution, rec.SubmittedGuesses)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}

	o := st.Outcome()
	if o.Phase != rec.Outcome {
		return nil, fmt.Errorf("%w: recorded outcome %q, replay gives %q", ErrCorruptSession, rec.Outcome, o.Phase)
	}
	if o.Phase == game.PhaseWon && (rec.RowIndexAtOutcome == nil || *rec.RowIndexAtOutcome != o.Row) {
		return nil, fmt.Errorf("%w: winning row mismatch", ErrCorruptSession)
	}
	return st, nil
}
