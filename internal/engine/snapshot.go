package engine

import (
	"errors"
	"strings"

	"github.com/samber/lo"

	"github.com/robalobadob/wordle/engine/internal/game"
	"github.com/robalobadob/wordle/engine/internal/stats"
)

// Rejection explains why the last intent was refused. RejectNone means it was accepted.
type Rejection string

const (
	RejectNone           Rejection = ""
	RejectInvalidWord    Rejection = "invalid_word"
	RejectDuplicateGuess Rejection = "duplicate_guess"
	RejectRowNotFull     Rejection = "row_not_full"
	RejectInputRejected  Rejection = "input_rejected" // not a letter, or the row is already full
	RejectGameOver       Rejection = "game_over"
)

func rejectionFor(err error) Rejection {
	switch {
	case err == nil:
		return RejectNone
	case errors.Is(err, game.ErrInvalidWord):
		return RejectInvalidWord
	case errors.Is(err, game.ErrDuplicateGuess):
		return RejectDuplicateGuess
	case errors.Is(err, game.ErrRowNotFull):
		return RejectRowNotFull
	case errors.Is(err, game.ErrGameOver):
		return RejectGameOver
	default:
		return RejectInputRejected
	}
}

var alphabet = strings.Split("abcdefghijklmnopqrstuvwxyz", "")

// Snapshot is a read-only copy of everything a presentation layer renders.
// Mutating it has no effect on the Engine.
type Snapshot struct {
	GameID       string                              `json:"gameId"`
	Board        [game.MaxRows][game.Width]game.Tile `json:"board"`
	ActiveRow    int                                 `json:"activeRow"`
	ActiveColumn int                                 `json:"activeColumn"`
	Outcome      game.Outcome                        `json:"outcome"`

	Correct  []string               `json:"correct"`
	Present  []string               `json:"present"`
	Absent   []string               `json:"absent"`
	// Keyboard maps every letter a-z to its best known status.
	Keyboard map[string]game.Status `json:"keyboard"`

	Stats     stats.Lifetime `json:"stats"`
	ShowStats bool           `json:"showStats"`

	LastRejection    Rejection `json:"lastRejection,omitempty"`
	StorageAvailable bool      `json:"storageAvailable"`

	// Solution is revealed once the game is over.
	Solution string `json:"solution,omitempty"`
}

func (e *Engine) snapshotLocked() Snapshot {
	st := e.state
	o := st.Outcome()
	correct, present, absent := st.LetterSets()

	snap := Snapshot{
		GameID:       st.ID(),
		Board:        st.Board(),
		ActiveRow:    st.Row(),
		ActiveColumn: st.Column(),
		Outcome:      o,
		Correct:      lo.Ternary(correct == nil, []string{}, correct),
		Present:      lo.Ternary(present == nil, []string{}, present),
		Absent:       lo.Ternary(absent == nil, []string{}, absent),
		Keyboard: lo.SliceToMap(alphabet, func(l string) (string, game.Status) {
			return l, st.Hint(l[0])
		}),
		Stats:            e.tracker.Current(),
		ShowStats:        o.Terminal(),
		LastRejection:    e.lastRejection,
		StorageAvailable: e.storageOK,
	}
	if o.Terminal() {
		snap.Solution = st.Solution()
	}
	return snap
}

// marksString renders a scored row compactly for logs: C correct, P present, . absent.
type marksString []game.Status

func (m marksString) String() string {
	var b strings.Builder
	for _, s := range m {
		switch s {
		case game.StatusCorrect:
			b.WriteByte('C')
		case game.StatusPresent:
			b.WriteByte('P')
		default:
			b.WriteByte('.')
		}
	}
	return b.String()
}
