// Package stats aggregates the outcomes of completed games into lifetime counters.
package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/samber/lo"

	"github.com/robalobadob/wordle/engine/internal/game"
)

// Distribution counts wins by the attempt they finished on: index 0 is a win on
// the first guess.
type Distribution [game.MaxRows]int

// MarshalJSON renders the distribution as {"1": n, ..., "6": n}.
func (d Distribution) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, len(d))
	for i, n := range d {
		m[strconv.Itoa(i+1)] = n
	}
	return json.Marshal(m)
}

// UnmarshalJSON accepts the form produced by MarshalJSON. Missing attempts count as zero.
func (d *Distribution) UnmarshalJSON(b []byte) error {
	var m map[string]int
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	var out Distribution
	for k, n := range m {
		attempt, err := strconv.Atoi(k)
		if err != nil || attempt < 1 || attempt > game.MaxRows {
			return fmt.Errorf("distribution: bad attempt %q", k)
		}
		if n < 0 {
			return fmt.Errorf("distribution: negative count for attempt %d", attempt)
		}
		out[attempt-1] = n
	}
	*d = out
	return nil
}

// Wins returns the number of wins that took exactly attempt guesses.
func (d Distribution) Wins(attempt int) int {
	if attempt < 1 || attempt > game.MaxRows {
		return 0
	}
	return d[attempt-1]
}

// Lifetime holds counters that survive across games and process restarts.
// LastGameID names the most recently counted game.
type Lifetime struct {
	GamesPlayed   int          `json:"gamesPlayed"`
	GamesWon      int          `json:"gamesWon"`
	CurrentStreak int          `json:"currentStreak"`
	MaxStreak     int          `json:"maxStreak"`
	WinPercentage int          `json:"winPercentage"`
	Distribution  Distribution `json:"distribution"`
	LastGameID    string       `json:"lastGameId,omitempty"`
}

// Validate checks the internal consistency of counters read back from storage.
func (l Lifetime) Validate() error {
	switch {
	case l.GamesPlayed < 0 || l.GamesWon < 0 || l.CurrentStreak < 0 || l.MaxStreak < 0:
		return fmt.Errorf("stats: negative counter")
	case l.GamesWon > l.GamesPlayed:
		return fmt.Errorf("stats: %d wins in %d games", l.GamesWon, l.GamesPlayed)
	case l.CurrentStreak > l.MaxStreak:
		return fmt.Errorf("stats: current streak %d above max %d", l.CurrentStreak, l.MaxStreak)
	case lo.Sum(l.Distribution[:]) != l.GamesWon:
		return fmt.Errorf("stats: distribution does not sum to %d wins", l.GamesWon)
	}
	return nil
}

// Complete returns prev updated with one finished game. attempts is the number of
// guesses used and must be in 1..game.MaxRows. prev is not modified.
func Complete(prev Lifetime, won bool, attempts int) (Lifetime, error) {
	if attempts < 1 || attempts > game.MaxRows {
		return prev, fmt.Errorf("attempts must be between 1 and %d, got %d", game.MaxRows, attempts)
	}

	next := prev
	next.GamesPlayed++
	if won {
		next.GamesWon++
		next.CurrentStreak++
		next.MaxStreak = max(next.MaxStreak, next.CurrentStreak)
		next.Distribution[attempts-1]++
	} else {
		next.CurrentStreak = 0
	}
	next.WinPercentage = winPercentage(next.GamesWon, next.GamesPlayed)
	return next, nil
}

// Reset returns the zero Lifetime.
func Reset() Lifetime {
	return Lifetime{}
}

func winPercentage(won, played int) int {
	if played == 0 {
		return 0
	}
	return int(math.Round(100 * float64(won) / float64(played)))
}
