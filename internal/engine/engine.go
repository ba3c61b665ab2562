// internal/engine/engine.go
//
// Engine is the single entry point the presentation layer talks to.
//
// Responsibilities:
//   - Serialize intents (letter, backspace, submit, new game, reset stats).
//   - Persist the session after every accepted guess and update lifetime stats
//     exactly once per finished game.
//   - Turn rejections and storage failures into Snapshot fields; nothing escapes
//     as an error.
//
// Stats bookkeeping on a finished game:
//  1. Save the session with statsRecorded=false.
//  2. Apply the result to the lifetime stats.
//  3. Save the session again with statsRecorded=true.
//
// A crash between 1 and 3 leaves a finished, unrecorded session, which New
// records on the next start. The stats remember the last counted game ID, so a
// failure of step 3 alone cannot count the same game twice.
//
// In daily mode each UTC day's word is dealt once. Later games that day, and
// games after a restart, get a random answer.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle/engine/internal/daily"
	"github.com/robalobadob/wordle/engine/internal/game"
	"github.com/robalobadob/wordle/engine/internal/session"
	"github.com/robalobadob/wordle/engine/internal/stats"
	"github.com/robalobadob/wordle/engine/internal/store"
	"github.com/robalobadob/wordle/engine/internal/words"
)

// Engine owns one game at a time. All methods are safe for concurrent use and
// are applied in arrival order.
type Engine struct {
	mu sync.Mutex

	dict     *words.Dictionary
	sessions *session.Store
	ledger   daily.Ledger
	tracker  *stats.Tracker
	log      zerolog.Logger
	rng      words.Rand

	dailySalt  string
	dailyDealt string
	clock      func() time.Time
	openErr    error

	state         *game.State
	statsRecorded bool
	lastRejection Rejection
	storageOK     bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the randomness used to pick solutions. Defaults to crypto/rand.
func WithRand(r words.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithDaily switches to daily mode: the first game of each UTC day gets the
// word of the day derived from salt. A nil clock means time.Now.
func WithDaily(salt string, clock func() time.Time) Option {
	return func(e *Engine) {
		e.dailySalt = salt
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithStorageError starts the engine with storage already marked unavailable,
// for callers that fell back to an in-memory backend after err.
func WithStorageError(err error) Option {
	return func(e *Engine) { e.openErr = err }
}

// New resumes the saved game from backend, or starts a fresh one. Storage
// failures never prevent play; they show up as Snapshot.StorageAvailable=false.
func New(ctx context.Context, dict *words.Dictionary, backend store.Backend, opts ...Option) *Engine {
	e := &Engine{
		dict:      dict,
		log:       zerolog.Nop(),
		rng:       words.CryptoRand(),
		clock:     time.Now,
		storageOK: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.storageErr(e.openErr, "open backend")
	e.sessions = session.New(backend, dict, e.log)
	e.ledger = backend

	tr, err := stats.NewTracker(ctx, backend, e.log)
	e.tracker = tr
	if errors.Is(err, store.ErrCorrupt) {
		e.log.Warn().Err(err).Msg("stored stats unreadable, starting from zero")
	} else {
		e.storageErr(err, "load stats")
	}

	res, found, err := e.sessions.Load(ctx)
	switch {
	case err != nil:
		e.storageErr(err, "load session")
		e.startLocked(ctx)
	case !found:
		e.startLocked(ctx)
	default:
		e.state = res.State
		e.statsRecorded = res.StatsRecorded
		e.log.Info().
			Str("game", e.state.ID()).
			Int("row", e.state.Row()).
			Str("outcome", string(e.state.Outcome().Phase)).
			Msg("resumed game")
		if e.state.Outcome().Terminal() && !e.statsRecorded {
			e.recordOutcomeLocked(ctx)
		}
	}
	return e
}

// TypeLetter writes r into the active row.
func (e *Engine) TypeLetter(r rune) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setRejection(e.state.TypeLetter(r))
	return e.snapshotLocked()
}

// Backspace removes the last letter of the active row.
func (e *Engine) Backspace() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setRejection(e.state.Backspace())
	return e.snapshotLocked()
}

// SubmitGuess scores the active row. Rejected guesses leave the game unchanged
// and are reported in Snapshot.LastRejection.
func (e *Engine) SubmitGuess(ctx context.Context) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	marks, err := e.state.Submit(e.dict)
	if err != nil {
		e.setRejection(err)
		return e.snapshotLocked()
	}
	e.lastRejection = RejectNone

	o := e.state.Outcome()
	e.log.Debug().
		Str("game", e.state.ID()).
		Int("attempt", e.state.Row()).
		Stringer("marks", marksString(marks)).
		Msg("guess accepted")

	e.statsRecorded = false
	e.saveLocked(ctx)
	if o.Terminal() {
		e.log.Info().
			Str("game", e.state.ID()).
			Str("outcome", string(o.Phase)).
			Int("attempts", o.Attempts()).
			Msg("game finished")
		e.recordOutcomeLocked(ctx)
	}
	return e.snapshotLocked()
}

// StartNewGame abandons the current game, clears the saved session and deals a
// new solution. Abandoning an unfinished game does not touch the stats.
func (e *Engine) StartNewGame(ctx context.Context) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startLocked(ctx)
	return e.snapshotLocked()
}

// ResetLifetimeStats zeroes every lifetime counter.
func (e *Engine) ResetLifetimeStats(ctx context.Context) stats.Lifetime {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, err := e.tracker.Reset(ctx)
	e.storageErr(err, "reset stats")
	return l
}

// CurrentSnapshot returns the current view without changing anything.
func (e *Engine) CurrentSnapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) startLocked(ctx context.Context) {
	solution, puzzle := e.pickSolution(ctx)
	st, err := game.New(uuid.NewString(), solution)
	if err != nil {
		// Dictionary words are always well-formed.
		panic(err)
	}
	e.state = st
	e.statsRecorded = false
	e.lastRejection = RejectNone
	e.storageErr(e.sessions.Clear(ctx), "clear session")
	if puzzle != nil {
		e.dailyDealt = puzzle.Date
		e.storageErr(e.ledger.InsertResult(ctx, puzzle.Result(st.ID())), "mark daily played")
	}
	e.log.Info().Str("game", st.ID()).Bool("daily", puzzle != nil).Msg("new game")
}

// pickSolution returns today's word if it has not been dealt yet, together with
// its puzzle. Otherwise it returns a random answer and a nil puzzle.
func (e *Engine) pickSolution(ctx context.Context) (string, *daily.Puzzle) {
	if e.dailySalt == "" {
		return e.dict.PickSolution(e.rng), nil
	}
	n, _ := e.dict.Stats()
	p := daily.Today(e.clock(), e.dailySalt, n)
	played := e.dailyDealt == p.Date
	if !played {
		ok, err := e.ledger.AlreadyPlayed(ctx, p.Date)
		e.storageErr(err, "check daily")
		played = ok
	}
	if played {
		e.log.Debug().Str("date", p.Date).Msg("daily word already dealt, picking at random")
		return e.dict.PickSolution(e.rng), nil
	}
	w, ok := e.dict.At(p.WordIndex)
	if !ok {
		return e.dict.PickSolution(e.rng), nil
	}
	return w, &p
}

func (e *Engine) recordOutcomeLocked(ctx context.Context) {
	o := e.state.Outcome()
	_, err := e.tracker.CompleteGame(ctx, e.state.ID(), o.Phase == game.PhaseWon, o.Attempts())
	e.storageErr(err, "record stats")
	e.statsRecorded = true
	e.saveLocked(ctx)
}

func (e *Engine) saveLocked(ctx context.Context) {
	e.storageErr(e.sessions.Save(ctx, e.state, e.statsRecorded), "save session")
}

// storageErr logs err and marks storage unavailable for the rest of the process.
// Writes are still attempted afterwards.
func (e *Engine) storageErr(err error, op string) {
	if err == nil {
		return
	}
	if e.storageOK {
		e.log.Warn().Err(err).Str("op", op).Msg("storage unavailable, continuing in memory")
	} else {
		e.log.Debug().Err(err).Str("op", op).Msg("storage still unavailable")
	}
	e.storageOK = false
}

func (e *Engine) setRejection(err error) {
	e.lastRejection = rejectionFor(err)
	if e.lastRejection != RejectNone {
		e.log.Debug().Str("game", e.state.ID()).Str("rejection", string(e.lastRejection)).Msg("input rejected")
	}
}
