// internal/store/memory.go
//
// In-memory Backend.
// Used when durability is not required, in tests, and as the fallback when the
// configured backend cannot be opened.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Records are copied in and out, so callers never share slices with the store.
//   - State is lost when the process exits.

package store

import (
	"context"
	"sync"

	"github.com/robalobadob/wordle/engine/internal/daily"
	"github.com/robalobadob/wordle/engine/internal/stats"
)

type memory struct {
	mu      sync.RWMutex
	session *SessionRecord
	stats   *stats.Lifetime
	daily   map[string]daily.Result
}

// NewMemory constructs an empty in-memory Backend.
func NewMemory() Backend {
	return &memory{}
}

func (m *memory) LoadSession(ctx context.Context) (SessionRecord, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return SessionRecord{}, false, nil
	}
	return m.session.clone(), true, nil
}

func (m *memory) SaveSession(ctx context.Context, rec SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := rec.clone()
	m.session = &c
	return nil
}

func (m *memory) ClearSession(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

func (m *memory) LoadStats(ctx context.Context) (stats.Lifetime, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.stats == nil {
		return stats.Lifetime{}, false, nil
	}
	return *m.stats, true, nil
}

func (m *memory) SaveStats(ctx context.Context, l stats.Lifetime) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = &l
	return nil
}

func (m *memory) AlreadyPlayed(ctx context.Context, date string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.daily[date]
	return ok, nil
}

func (m *memory) InsertResult(ctx context.Context, r daily.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.daily == nil {
		m.daily = map[string]daily.Result{}
	}
	if _, ok := m.daily[r.Date]; !ok {
		m.daily[r.Date] = r
	}
	return nil
}

func (m *memory) Close() error { return nil }
