package stats

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Store persists the lifetime record. LoadStats reports found=false when nothing
// has been saved yet.
type Store interface {
	LoadStats(ctx context.Context) (l Lifetime, found bool, err error)
	SaveStats(ctx context.Context, l Lifetime) error
}

// Tracker owns the lifetime record: it applies Complete/Reset and writes the
// result through to the Store. The in-memory copy stays authoritative when a
// write fails, so play continues without persistence.
//
// A game is counted at most once per ID: CompleteGame ignores a repeat of the
// last counted game.
type Tracker struct {
	store   Store
	log     zerolog.Logger
	current Lifetime
}

// NewTracker loads the stored record. Unreadable or inconsistent records are
// logged and replaced by zero counters.
func NewTracker(ctx context.Context, st Store, log zerolog.Logger) (*Tracker, error) {
	t := &Tracker{store: st, log: log}

	l, found, err := st.LoadStats(ctx)
	switch {
	case err != nil:
		return t, fmt.Errorf("load stats: %w", err)
	case !found:
		return t, nil
	}
	if err := l.Validate(); err != nil {
		log.Warn().Err(err).Msg("stored stats are inconsistent, starting from zero")
		return t, nil
	}
	t.current = l
	return t, nil
}

// Current returns the lifetime counters.
func (t *Tracker) Current() Lifetime {
	return t.current
}

// CompleteGame records finished game gameID and persists the result. If gameID
// is the last counted game the counters are returned unchanged and nothing is
// written. The returned Lifetime is the new value even when err reports a
// failed write.
func (t *Tracker) CompleteGame(ctx context.Context, gameID string, won bool, attempts int) (Lifetime, error) {
	if gameID != "" && gameID == t.current.LastGameID {
		t.log.Debug().Str("game", gameID).Msg("game already counted")
		return t.current, nil
	}
	next, err := Complete(t.current, won, attempts)
	if err != nil {
		return t.current, err
	}
	next.LastGameID = gameID
	t.current = next
	t.log.Info().
		Str("game", gameID).
		Bool("won", won).
		Int("attempts", attempts).
		Int("played", next.GamesPlayed).
		Int("streak", next.CurrentStreak).
		Msg("game completed")

	if err := t.store.SaveStats(ctx, next); err != nil {
		return next, fmt.Errorf("save stats: %w", err)
	}
	return next, nil
}

// Reset zeroes every counter and persists the result.
func (t *Tracker) Reset(ctx context.Context) (Lifetime, error) {
	t.current = Reset()
	t.log.Info().Msg("lifetime stats reset")
	if err := t.store.SaveStats(ctx, t.current); err != nil {
		return t.current, fmt.Errorf("save stats: %w", err)
	}
	return t.current, nil
}
