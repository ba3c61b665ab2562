// internal/store/file.go
//
// Backend that keeps each record as a JSON document in a directory:
//
//	<dir>/session.json
//	<dir>/stats.json
//	<dir>/daily.json   dealt days, keyed by date
//
// Writes go to a temp file in the same directory and are renamed into place, so
// a crash leaves either the old or the new document. A document that fails to
// decode is removed and reported as ErrCorrupt.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/robalobadob/wordle/engine/internal/daily"
	"github.com/robalobadob/wordle/engine/internal/stats"
)

const (
	sessionFile = "session.json"
	statsFile   = "stats.json"
	dailyFile   = "daily.json"
)

type fileStore struct {
	mu  sync.Mutex
	dir string
}

// OpenFile returns a Backend rooted at dir, creating it if needed.
func OpenFile(dir string) (Backend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &fileStore{dir: dir}, nil
}

func (f *fileStore) LoadSession(ctx context.Context) (SessionRecord, bool, error) {
	var rec SessionRecord
	found, err := f.read(sessionFile, &rec)
	return rec, found, err
}

func (f *fileStore) SaveSession(ctx context.Context, rec SessionRecord) error {
	return f.write(sessionFile, rec)
}

func (f *fileStore) ClearSession(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(filepath.Join(f.dir, sessionFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func (f *fileStore) LoadStats(ctx context.Context) (stats.Lifetime, bool, error) {
	var l stats.Lifetime
	found, err := f.read(statsFile, &l)
	return l, found, err
}

func (f *fileStore) SaveStats(ctx context.Context, l stats.Lifetime) error {
	return f.write(statsFile, l)
}

func (f *fileStore) AlreadyPlayed(ctx context.Context, date string) (bool, error) {
	var days map[string]daily.Result
	// An unreadable ledger has been removed by read; start it over.
	if _, err := f.read(dailyFile, &days); err != nil && !errors.Is(err, ErrCorrupt) {
		return false, err
	}
	_, ok := days[date]
	return ok, nil
}

// InsertResult keeps the first result per date. read and write lock separately;
// the engine is the only writer.
func (f *fileStore) InsertResult(ctx context.Context, r daily.Result) error {
	var days map[string]daily.Result
	if _, err := f.read(dailyFile, &days); err != nil && !errors.Is(err, ErrCorrupt) {
		return err
	}
	if _, ok := days[r.Date]; ok {
		return nil
	}
	if days == nil {
		days = map[string]daily.Result{}
	}
	days[r.Date] = r
	return f.write(dailyFile, days)
}

func (f *fileStore) Close() error { return nil }

func (f *fileStore) read(name string, v any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := filepath.Join(f.dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = os.Remove(path)
		return false, fmt.Errorf("%w: %s: %v", ErrCorrupt, name, err)
	}
	return true, nil
}

func (f *fileStore) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(f.dir, name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}
