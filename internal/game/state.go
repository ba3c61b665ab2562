// internal/game/state.go
//
// Attempt-by-attempt state machine for a single game.
//
// States:
//   - Building(row, col < Width): accepts letters and backspace.
//   - RowFull(row, col == Width): accepts submit and backspace.
//   - Won / Lost: terminal, every input is rejected with ErrGameOver.
//
// Submit validation order (first match wins):
//  1. ErrRowNotFull when fewer than Width letters are typed.
//  2. ErrInvalidWord when the Validator does not know the word.
//  3. ErrDuplicateGuess when the word was already submitted this game.
//
// A rejected input never changes the State.
package game

import (
	"fmt"
	"slices"
	"sort"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
)

// Validator decides which words count as guesses. *words.Dictionary satisfies it.
type Validator interface {
	IsValidGuess(word string) bool
}

// State is one game in progress or finished. The zero value is not usable; build
// one with New or Restore.
type State struct {
	id       string
	solution string

	letters [MaxRows][Width]byte
	marks   [MaxRows][]Status
	guesses []string

	row, col int
	hints    map[byte]Status
	outcome  Outcome
}

// New starts a game on Building(0,0). solution must already be normalized.
func New(id, solution string) (*State, error) {
	if len(solution) != Width {
		return nil, fmt.Errorf("solution %q: want %d letters", solution, Width)
	}
	for i := 0; i < Width; i++ {
		if !isLower(solution[i]) {
			return nil, fmt.Errorf("solution %q: not lowercase a-z", solution)
		}
	}
	return &State{
		id:       id,
		solution: solution,
		guesses:  []string{},
		hints:    make(map[byte]Status),
		outcome:  Outcome{Phase: PhaseInProgress},
	}, nil
}

// Restore rebuilds a game by replaying previously accepted guesses. Guesses are
// not checked against a dictionary again; they were valid when first submitted.
func Restore(id, solution string, guesses []string) (*State, error) {
	s, err := New(id, solution)
	if err != nil {
		return nil, err
	}
	for i, g := range guesses {
		if s.outcome.Terminal() {
			return nil, fmt.Errorf("guess %d %q: %w", i, g, ErrGameOver)
		}
		if len(g) != Width {
			return nil, fmt.Errorf("guess %d %q: want %d letters", i, g, Width)
		}
		for j := 0; j < Width; j++ {
			if !isLower(g[j]) {
				return nil, fmt.Errorf("guess %d %q: %w", i, g, ErrInvalidLetter)
			}
		}
		if lo.Contains(s.guesses, g) {
			return nil, fmt.Errorf("guess %d %q: %w", i, g, ErrDuplicateGuess)
		}
		copy(s.letters[s.row][:], g)
		s.apply(g)
	}
	return s, nil
}

// TypeLetter writes r at the cursor and advances it.
func (s *State) TypeLetter(r rune) error {
	if s.outcome.Terminal() {
		return ErrGameOver
	}
	c, ok := foldLetter(r)
	if !ok {
		return ErrInvalidLetter
	}
	if s.col == Width {
		return ErrRowFull
	}
	s.letters[s.row][s.col] = c
	s.col++
	return nil
}

// Backspace clears the cell left of the cursor. It is a no-op on an empty row.
func (s *State) Backspace() error {
	if s.outcome.Terminal() {
		return ErrGameOver
	}
	if s.col == 0 {
		return nil
	}
	s.col--
	s.letters[s.row][s.col] = 0
	return nil
}

// Submit validates and scores the current row. On success the row is locked,
// the hints are merged, and the cursor moves to the next row or the game ends.
func (s *State) Submit(v Validator) ([]Status, error) {
	if s.outcome.Terminal() {
		return nil, ErrGameOver
	}
	if s.col < Width {
		return nil, ErrRowNotFull
	}
	word := string(s.letters[s.row][:])
	if !v.IsValidGuess(word) {
		return nil, ErrInvalidWord
	}
	if lo.Contains(s.guesses, word) {
		return nil, ErrDuplicateGuess
	}
	return s.apply(word), nil
}

// apply scores word on the current row and advances the state machine.
func (s *State) apply(word string) []Status {
	marks := Score(word, s.solution)
	row := s.row

	s.marks[row] = marks
	s.guesses = append(s.guesses, word)
	for i, m := range marks {
		if m > s.hints[word[i]] {
			s.hints[word[i]] = m
		}
	}

	s.row++
	s.col = 0

	switch {
	case allCorrect(marks):
		s.outcome = Outcome{Phase: PhaseWon, Row: row}
	case s.row >= MaxRows:
		s.outcome = Outcome{Phase: PhaseLost}
	}
	return append([]Status(nil), marks...)
}

// foldLetter case-folds r and accepts only a single ASCII letter.
func foldLetter(r rune) (byte, bool) {
	f := cases.Fold().String(string(r))
	if len(f) != 1 || !isLower(f[0]) {
		return 0, false
	}
	return f[0], true
}

func (s *State) ID() string       { return s.id }
func (s *State) Solution() string { return s.solution }
func (s *State) Row() int         { return s.row }
func (s *State) Column() int      { return s.col }
func (s *State) Outcome() Outcome { return s.outcome }

// Guesses returns the submitted words in order.
func (s *State) Guesses() []string {
	return slices.Clone(s.guesses)
}

// Pending returns the letters typed on the active row so far.
func (s *State) Pending() string {
	if s.row >= MaxRows {
		return ""
	}
	return string(s.letters[s.row][:s.col])
}

// Board returns every cell: submitted rows with their marks, the active row's
// typed letters as Active, and Empty everywhere else.
func (s *State) Board() [MaxRows][Width]Tile {
	var b [MaxRows][Width]Tile
	for r := 0; r < MaxRows; r++ {
		for c := 0; c < Width; c++ {
			switch {
			case r < s.row:
				b[r][c] = Tile{Letter: string(s.letters[r][c]), Status: s.marks[r][c]}
			case r == s.row && c < s.col:
				b[r][c] = Tile{Letter: string(s.letters[r][c]), Status: StatusActive}
			default:
				b[r][c] = Tile{Status: StatusEmpty}
			}
		}
	}
	return b
}

// Hint returns the best status letter has earned across all submitted guesses,
// or StatusEmpty if it has not been guessed.
func (s *State) Hint(letter byte) Status {
	return s.hints[letter]
}

// LetterSets returns the globally known correct, present and absent letters,
// each sorted. A letter appears only in the set of its best status.
func (s *State) LetterSets() (correct, present, absent []string) {
	for c, st := range s.hints {
		switch st {
		case StatusCorrect:
			correct = append(correct, string(c))
		case StatusPresent:
			present = append(present, string(c))
		case StatusAbsent:
			absent = append(absent, string(c))
		}
	}
	sort.Strings(correct)
	sort.Strings(present)
	sort.Strings(absent)
	return correct, present, absent
}
