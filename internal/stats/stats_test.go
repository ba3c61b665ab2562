package stats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustComplete(t *testing.T, l Lifetime, won bool, attempts int) Lifetime {
	t.Helper()
	next, err := Complete(l, won, attempts)
	require.NoError(t, err)
	return next
}

func TestCompleteWin(t *testing.T) {
	l := mustComplete(t, Lifetime{}, true, 3)
	assert.Equal(t, Lifetime{
		GamesPlayed:   1,
		GamesWon:      1,
		CurrentStreak: 1,
		MaxStreak:     1,
		WinPercentage: 100,
		Distribution:  Distribution{0, 0, 1, 0, 0, 0},
	}, l)
	assert.Equal(t, 1, l.Distribution.Wins(3))
}

func TestCompleteLossResetsStreak(t *testing.T) {
	l := mustComplete(t, Lifetime{}, true, 2)
	l = mustComplete(t, l, true, 4)
	l = mustComplete(t, l, false, 6)

	assert.Equal(t, 3, l.GamesPlayed)
	assert.Equal(t, 2, l.GamesWon)
	assert.Equal(t, 0, l.CurrentStreak)
	assert.Equal(t, 2, l.MaxStreak)
	assert.Equal(t, 67, l.WinPercentage, "round(200/3)")
	assert.Equal(t, Distribution{0, 1, 0, 1, 0, 0}, l.Distribution)

	l = mustComplete(t, l, true, 1)
	assert.Equal(t, 1, l.CurrentStreak)
	assert.Equal(t, 2, l.MaxStreak, "max streak survives a shorter run")
	assert.Equal(t, 75, l.WinPercentage)
	require.NoError(t, l.Validate())
}

func TestCompleteIsPure(t *testing.T) {
	prev := mustComplete(t, Lifetime{}, true, 5)
	snapshot := prev
	_ = mustComplete(t, prev, true, 5)
	assert.Equal(t, snapshot, prev)
}

func TestCompleteRejectsBadAttempts(t *testing.T) {
	for _, n := range []int{0, -1, 7} {
		_, err := Complete(Lifetime{}, true, n)
		assert.Error(t, err, n)
	}
}

func TestWinPercentageRounding(t *testing.T) {
	assert.Equal(t, 0, winPercentage(0, 0))
	assert.Equal(t, 33, winPercentage(1, 3))
	assert.Equal(t, 50, winPercentage(1, 2))
	assert.Equal(t, 17, winPercentage(1, 6))
}

func TestResetZeroesEverything(t *testing.T) {
	assert.Equal(t, Lifetime{}, Reset())
	assert.Equal(t, Distribution{}, Reset().Distribution)
}

func TestDistributionJSON(t *testing.T) {
	b, err := json.Marshal(Distribution{1, 0, 2, 0, 0, 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"1":1,"2":0,"3":2,"4":0,"5":0,"6":3}`, string(b))

	var d Distribution
	require.NoError(t, json.Unmarshal([]byte(`{"2":4}`), &d))
	assert.Equal(t, Distribution{0, 4, 0, 0, 0, 0}, d)

	assert.Error(t, json.Unmarshal([]byte(`{"7":1}`), &d))
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &d))
	assert.Error(t, json.Unmarshal([]byte(`{"1":-1}`), &d))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Lifetime{}.Validate())
	assert.Error(t, Lifetime{GamesPlayed: 1, GamesWon: 2}.Validate())
	assert.Error(t, Lifetime{GamesPlayed: 2, GamesWon: 1}.Validate(), "distribution must account for wins")
	assert.Error(t, Lifetime{CurrentStreak: 2, MaxStreak: 1}.Validate())
}

type memStore struct {
	l       Lifetime
	found   bool
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) LoadStats(context.Context) (Lifetime, bool, error) {
	return m.l, m.found, m.loadErr
}

func (m *memStore) SaveStats(_ context.Context, l Lifetime) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.l, m.found = l, true
	m.saves++
	return nil
}

func TestTrackerPersists(t *testing.T) {
	ctx := context.Background()
	st := &memStore{}
	tr, err := NewTracker(ctx, st, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Lifetime{}, tr.Current())

	l, err := tr.CompleteGame(ctx, "g1", true, 2)
	require.NoError(t, err)
	assert.Equal(t, l, st.l)
	assert.Equal(t, "g1", l.LastGameID)
	assert.Equal(t, 1, st.saves)

	again, err := NewTracker(ctx, st, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, l, again.Current())

	z, err := again.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, Lifetime{}, z)
	assert.Equal(t, Lifetime{}, st.l)
}

func TestTrackerKeepsPlayingWhenStoreFails(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk gone")
	st := &memStore{loadErr: boom}

	tr, err := NewTracker(ctx, st, zerolog.Nop())
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, tr)

	st.saveErr = boom
	l, err := tr.CompleteGame(ctx, "g1", false, 6)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, l.GamesPlayed)
	assert.Equal(t, l, tr.Current(), "in-memory counters still advance")
}

func TestTrackerDiscardsInconsistentRecord(t *testing.T) {
	st := &memStore{found: true, l: Lifetime{GamesPlayed: 1, GamesWon: 5}}
	tr, err := NewTracker(context.Background(), st, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Lifetime{}, tr.Current())
}

func TestTrackerCountsEachGameOnce(t *testing.T) {
	ctx := context.Background()
	st := &memStore{}
	tr, err := NewTracker(ctx, st, zerolog.Nop())
	require.NoError(t, err)

	first, err := tr.CompleteGame(ctx, "g1", true, 3)
	require.NoError(t, err)

	// A restarted process reloads the record and replays the same finished game.
	again, err := NewTracker(ctx, st, zerolog.Nop())
	require.NoError(t, err)
	l, err := again.CompleteGame(ctx, "g1", true, 3)
	require.NoError(t, err)
	assert.Equal(t, first, l)
	assert.Equal(t, 1, st.saves, "a repeated game is not written again")

	l, err = again.CompleteGame(ctx, "g2", false, 6)
	require.NoError(t, err)
	assert.Equal(t, 2, l.GamesPlayed)
	assert.Equal(t, 0, l.CurrentStreak)
	assert.Equal(t, "g2", l.LastGameID)
}
