package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/engine/internal/game"
	"github.com/robalobadob/wordle/engine/internal/store"
	"github.com/robalobadob/wordle/engine/internal/words"
)

func testDict(t *testing.T) *words.Dictionary {
	t.Helper()
	d, err := words.New(
		[]string{"react", "there", "apple"},
		[]string{"trace", "erect", "eerie", "crate", "cater", "caret", "actor"},
	)
	require.NoError(t, err)
	return d
}

func play(t *testing.T, d *words.Dictionary, st *game.State, guesses ...string) {
	t.Helper()
	for _, w := range guesses {
		for _, r := range w {
			require.NoError(t, st.TypeLetter(r))
		}
		_, err := st.Submit(d)
		require.NoError(t, err, w)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := testDict(t)
	b := store.NewMemory()
	s := New(b, d, zerolog.Nop())

	st, err := game.New("g-1", "react")
	require.NoError(t, err)
	play(t, d, st, "trace", "erect")
	require.NoError(t, st.TypeLetter('c'), "partial rows are not persisted")
	require.NoError(t, s.Save(ctx, st, false))

	rec, found, err := b.LoadSession(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.NotContains(t, rec.SolutionEncoded, "react")
	assert.Equal(t, []string{"trace", "erect"}, rec.SubmittedGuesses)
	assert.Equal(t, game.PhaseInProgress, rec.Outcome)
	assert.Nil(t, rec.RowIndexAtOutcome)
	assert.Equal(t, 2, rec.ActiveRow)
	assert.Equal(t, 0, rec.ActiveColumn)

	got, found, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, got.StatsRecorded)
	assert.Equal(t, "g-1", got.State.ID())
	assert.Equal(t, "react", got.State.Solution())
	assert.Equal(t, st.Guesses(), got.State.Guesses())
	assert.Equal(t, 2, got.State.Row())
	assert.Equal(t, 0, got.State.Column())
	assert.Equal(t, st.Outcome(), got.State.Outcome())

	wc, wp, wa := st.LetterSets()
	gc, gp, ga := got.State.LetterSets()
	assert.Equal(t, wc, gc)
	assert.Equal(t, wp, gp)
	assert.Equal(t, wa, ga)
}

func TestSaveLoadWonGame(t *testing.T) {
	ctx := context.Background()
	d := testDict(t)
	s := New(store.NewMemory(), d, zerolog.Nop())

	st, err := game.New("g-2", "there")
	require.NoError(t, err)
	play(t, d, st, "eerie", "there")
	require.Equal(t, game.Outcome{Phase: game.PhaseWon, Row: 1}, st.Outcome())
	require.NoError(t, s.Save(ctx, st, true))

	got, found, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, got.StatsRecorded)
	assert.Equal(t, game.Outcome{Phase: game.PhaseWon, Row: 1}, got.State.Outcome())

	require.NoError(t, s.Clear(ctx))
	_, found, err = s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoadDiscardsCorruptRecords(t *testing.T) {
	ctx := context.Background()
	d := testDict(t)
	good, err := d.EncodeSolution("react")
	require.NoError(t, err)
	one := 1

	other, err := words.New([]string{"apple", "react"}, nil)
	require.NoError(t, err)
	foreign, err := other.EncodeSolution("react")
	require.NoError(t, err)

	tests := []struct {
		name string
		rec  store.SessionRecord
	}{
		{"missing id", store.SessionRecord{SolutionEncoded: good, Outcome: game.PhaseInProgress}},
		{"undecodable solution", store.SessionRecord{GameID: "g", SolutionEncoded: "zz", Outcome: game.PhaseInProgress}},
		{"other word list", store.SessionRecord{GameID: "g", SolutionEncoded: foreign, Outcome: game.PhaseInProgress}},
		{"cursor mismatch", store.SessionRecord{
			GameID: "g", SolutionEncoded: good, SubmittedGuesses: []string{"trace"},
			Outcome: game.PhaseInProgress, ActiveRow: 0,
		}},
		{"partial row", store.SessionRecord{
			GameID: "g", SolutionEncoded: good, Outcome: game.PhaseInProgress, ActiveColumn: 3,
		}},
		{"bad guess", store.SessionRecord{
			GameID: "g", SolutionEncoded: good, SubmittedGuesses: []string{"TR4CE"},
			Outcome: game.PhaseInProgress, ActiveRow: 1,
		}},
		{"outcome mismatch", store.SessionRecord{
			GameID: "g", SolutionEncoded: good, SubmittedGuesses: []string{"trace"},
			Outcome: game.PhaseWon, RowIndexAtOutcome: &one, ActiveRow: 1,
		}},
		{"winning row mismatch", store.SessionRecord{
			GameID: "g", SolutionEncoded: good, SubmittedGuesses: []string{"trace", "react"},
			Outcome: game.PhaseWon, ActiveRow: 2,
		}},
		{"guess after win", store.SessionRecord{
			GameID: "g", SolutionEncoded: good, SubmittedGuesses: []string{"react", "trace"},
			Outcome: game.PhaseWon, RowIndexAtOutcome: &one, ActiveRow: 2,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := store.NewMemory()
			require.NoError(t, b.SaveSession(ctx, tt.rec))
			s := New(b, d, zerolog.Nop())

			_, found, err := s.Load(ctx)
			require.NoError(t, err, "corruption is not a storage failure")
			assert.False(t, found)

			_, stillThere, err := b.LoadSession(ctx)
			require.NoError(t, err)
			assert.False(t, stillThere, "corrupt record is cleared")
		})
	}
}

type brokenBackend struct {
	loadErr error
	cleared bool
}

func (b *brokenBackend) LoadSession(context.Context) (store.SessionRecord, bool, error) {
	return store.SessionRecord{}, false, b.loadErr
}

func (b *brokenBackend) SaveSession(context.Context, store.SessionRecord) error {
	return errors.New("read-only")
}

func (b *brokenBackend) ClearSession(context.Context) error {
	b.cleared = true
	return nil
}

func TestLoadTreatsUndecodableBytesAsNoGame(t *testing.T) {
	b := &brokenBackend{loadErr: fmt.Errorf("%w: session.json", store.ErrCorrupt)}
	s := New(b, testDict(t), zerolog.Nop())

	_, found, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, b.cleared)
}

func TestBackendFailuresSurface(t *testing.T) {
	ctx := context.Background()
	d := testDict(t)
	boom := errors.New("disk gone")
	s := New(&brokenBackend{loadErr: boom}, d, zerolog.Nop())

	_, _, err := s.Load(ctx)
	assert.ErrorIs(t, err, boom)

	st, err := game.New("g", "react")
	require.NoError(t, err)
	assert.Error(t, s.Save(ctx, st, false))
}

func TestSaveRejectsNonSolution(t *testing.T) {
	st, err := game.New("g", "erect")
	require.NoError(t, err)
	s := New(store.NewMemory(), testDict(t), zerolog.Nop())
	assert.Error(t, s.Save(context.Background(), st, false))
}
