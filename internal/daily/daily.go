// Package daily deals the word of the day and tracks which days have been dealt.
//
// A day is a UTC calendar date. Its word is chosen by a BLAKE2b-256 MAC of the
// date keyed with a configured salt, reduced modulo the answer count, so every
// install sharing salt and answer list agrees on the word without coordination.
package daily

import (
	"context"
	"encoding/binary"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Puzzle is the word of one day, as a position in the ordered answer list.
type Puzzle struct {
	Date      string `json:"date"`
	WordIndex int    `json:"wordIndex"`
}

// Today returns the puzzle for the UTC date containing now.
func Today(now time.Time, salt string, answers int) Puzzle {
	date := now.UTC().Format(time.DateOnly)
	return Puzzle{Date: date, WordIndex: pick(date, salt, answers)}
}

// Result returns the ledger entry for dealing p as game gameID.
func (p Puzzle) Result(gameID string) Result {
	return Result{Date: p.Date, WordIndex: p.WordIndex, GameID: gameID}
}

// Result records that a day's puzzle was dealt. One per date.
type Result struct {
	Date      string `json:"date"`
	WordIndex int    `json:"wordIndex"`
	GameID    string `json:"gameId"`
}

// Ledger remembers dealt days. InsertResult keeps the first result for a date.
type Ledger interface {
	AlreadyPlayed(ctx context.Context, date string) (bool, error)
	InsertResult(ctx context.Context, r Result) error
}

func pick(date, salt string, answers int) int {
	if answers <= 0 {
		return 0
	}
	// blake2b rejects keys over 64 bytes.
	key := []byte(salt)
	if len(key) > blake2b.Size {
		d := blake2b.Sum512(key)
		key = d[:]
	}
	mac, err := blake2b.New256(key)
	if err != nil {
		return 0
	}
	mac.Write([]byte(date))
	return int(binary.BigEndian.Uint64(mac.Sum(nil)) % uint64(answers))
}
