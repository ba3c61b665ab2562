// internal/game/types.go
//
// Core type definitions for the puzzle engine.
// Defines:
//   - Status: per-letter evaluation (empty/active/absent/present/correct).
//   - Tile: one board cell.
//   - Outcome: in-progress, won at a row, or lost.
package game

import (
	"errors"
	"fmt"
)

const (
	Width   = 5 // letters per word
	MaxRows = 6 // attempts per game
)

// Status is the evaluation of a single board cell or keyboard letter.
// Values are ordered so that a higher Status outranks a lower one when letter
// hints are merged across guesses: Correct > Present > Absent.
type Status int

const (
	StatusEmpty Status = iota
	StatusActive
	StatusAbsent
	StatusPresent
	StatusCorrect
)

var statusNames = [...]string{
	StatusEmpty:   "empty",
	StatusActive:  "active",
	StatusAbsent:  "absent",
	StatusPresent: "present",
	StatusCorrect: "correct",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// MarshalText renders the status by name.
func (s Status) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(statusNames) {
		return nil, fmt.Errorf("invalid status %d", int(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText parses a status name.
func (s *Status) UnmarshalText(b []byte) error {
	for i, name := range statusNames {
		if name == string(b) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", b)
}

// Tile is one cell of the board. Letter is "" when the cell is empty.
type Tile struct {
	Letter string `json:"letter,omitempty"`
	Status Status `json:"status"`
}

// Phase is the coarse game state.
type Phase string

const (
	PhaseInProgress Phase = "in_progress"
	PhaseWon        Phase = "won"
	PhaseLost       Phase = "lost"
)

// Outcome describes how a game ended, if it has.
// Row is the zero-based index of the winning row and is only meaningful for PhaseWon.
type Outcome struct {
	Phase Phase `json:"phase"`
	Row   int   `json:"row"`
}

// Terminal reports whether the game accepts no further input.
func (o Outcome) Terminal() bool {
	return o.Phase == PhaseWon || o.Phase == PhaseLost
}

// Attempts returns the number of guesses the finished game used:
// Row+1 for a win, MaxRows for a loss, 0 while in progress.
func (o Outcome) Attempts() int {
	switch o.Phase {
	case PhaseWon:
		return o.Row + 1
	case PhaseLost:
		return MaxRows
	default:
		return 0
	}
}

// Input rejections. None of them change the State.
var (
	ErrGameOver       = errors.New("game is over")
	ErrInvalidLetter  = errors.New("not a letter")
	ErrRowFull        = errors.New("row is full")
	ErrRowNotFull     = errors.New("row is not full")
	ErrInvalidWord    = errors.New("word not recognised")
	ErrDuplicateGuess = errors.New("word already guessed")
)
