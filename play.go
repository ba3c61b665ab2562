package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/robalobadob/wordle/engine/internal/engine"
	"github.com/robalobadob/wordle/engine/internal/game"
	"github.com/robalobadob/wordle/engine/internal/stats"
)

const helpText = `Type a 5-letter word and press enter to guess.
Commands: :new  :stats  :reset-stats  :help  :quit`

var rejectionText = map[engine.Rejection]string{
	engine.RejectInvalidWord:    "Not in word list",
	engine.RejectDuplicateGuess: "Already guessed",
	engine.RejectRowNotFull:     "Not enough letters",
	engine.RejectInputRejected:  "Letters a-z only, 5 per word",
	engine.RejectGameOver:       "Game over, :new to play again",
}

// play reads lines from in until :quit, end of input or ctx is cancelled.
func play(ctx context.Context, eng *engine.Engine, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	fmt.Fprintln(out, helpText)
	render(out, eng.CurrentSnapshot())
	for {
		fmt.Fprint(out, "> ")
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			line = strings.TrimSpace(l)
		}

		switch line {
		case "":
		case ":quit", ":q":
			return nil
		case ":help":
			fmt.Fprintln(out, helpText)
		case ":new":
			render(out, eng.StartNewGame(ctx))
		case ":stats":
			renderStats(out, eng.CurrentSnapshot().Stats)
		case ":reset-stats":
			renderStats(out, eng.ResetLifetimeStats(ctx))
		default:
			render(out, enterWord(ctx, eng, line))
		}
	}
}

// enterWord replaces whatever is typed on the active row with w and submits it.
// A rejected word is erased again so the next line starts on an empty row.
func enterWord(ctx context.Context, eng *engine.Engine, w string) engine.Snapshot {
	clearRow(eng)

	var s engine.Snapshot
	for _, r := range w {
		s = eng.TypeLetter(r)
		if s.LastRejection != engine.RejectNone {
			clearRow(eng)
			return s
		}
	}
	s = eng.SubmitGuess(ctx)
	if s.LastRejection != engine.RejectNone {
		clearRow(eng)
	}
	return s
}

func clearRow(eng *engine.Engine) {
	for s := eng.CurrentSnapshot(); s.ActiveColumn > 0 && !s.Outcome.Terminal(); {
		s = eng.Backspace()
	}
}

func render(out io.Writer, s engine.Snapshot) {
	for _, row := range s.Board {
		var b strings.Builder
		for _, t := range row {
			b.WriteString(tile(t))
		}
		fmt.Fprintln(out, b.String())
	}
	fmt.Fprintln(out, keyboard(s))

	if msg, ok := rejectionText[s.LastRejection]; ok {
		fmt.Fprintln(out, msg)
	}
	if !s.StorageAvailable {
		fmt.Fprintln(out, "(progress is not being saved)")
	}
	switch s.Outcome.Phase {
	case game.PhaseWon:
		fmt.Fprintf(out, "You won in %d! The word was %s.\n", s.Outcome.Attempts(), strings.ToUpper(s.Solution))
	case game.PhaseLost:
		fmt.Fprintf(out, "Out of guesses. The word was %s.\n", strings.ToUpper(s.Solution))
	}
	if s.ShowStats {
		renderStats(out, s.Stats)
	}
}

// tile draws one cell: [X] correct, (X) present, ' x ' absent, ' x_' typed, ' . ' empty.
func tile(t game.Tile) string {
	switch t.Status {
	case game.StatusCorrect:
		return "[" + strings.ToUpper(t.Letter) + "]"
	case game.StatusPresent:
		return "(" + strings.ToUpper(t.Letter) + ")"
	case game.StatusAbsent:
		return " " + t.Letter + " "
	case game.StatusActive:
		return " " + t.Letter + "_"
	default:
		return " . "
	}
}

func keyboard(s engine.Snapshot) string {
	var b strings.Builder
	for _, row := range []string{"qwertyuiop", "asdfghjkl", "zxcvbnm"} {
		for _, c := range row {
			l := string(c)
			switch s.Keyboard[l] {
			case game.StatusCorrect:
				b.WriteString(strings.ToUpper(l))
			case game.StatusPresent:
				b.WriteString(strings.ToUpper(l) + "?")
			case game.StatusAbsent:
				b.WriteString("-")
			default:
				b.WriteString(l)
			}
			b.WriteByte(' ')
		}
		b.WriteString(" ")
	}
	return strings.TrimSpace(b.String())
}

func renderStats(out io.Writer, l stats.Lifetime) {
	fmt.Fprintf(out, "Played: %d  Win %%: %d  Streak: %d  Max streak: %d\n",
		l.GamesPlayed, l.WinPercentage, l.CurrentStreak, l.MaxStreak)
	most := 1
	for _, n := range l.Distribution {
		most = max(most, n)
	}
	for i, n := range l.Distribution {
		bar := strings.Repeat("#", n*20/most)
		fmt.Fprintf(out, "  %d | %-20s %d\n", i+1, bar, n)
	}
}
