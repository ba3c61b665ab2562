// internal/words/words.go
//
// Dictionary of valid words for the puzzle engine.
//
// Responsibilities:
//   - Hold the ordered solution-eligible list ("answers") and the full guess set
//     ("allowed", always a superset of answers).
//   - Answer IsValidGuess / IsSolution lookups and pick uniformly random solutions.
//   - Load lists from files or fall back to the embedded defaults in assets/.
//
// Initialization behavior (Load):
//  1. If both answersPath and allowedPath are set, answers come from the first file
//     and extra guesses from the second.
//  2. If only allowedPath is set, that file is used for both.
//  3. Otherwise the embedded lists are used.
//
// Constraints:
//   - Words are case-folded and must be exactly game.Width letters a–z; anything
//     else is dropped at load time.
//   - A Dictionary is immutable once built and safe for concurrent readers.
package words

import (
	"bufio"
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"

	"github.com/robalobadob/wordle/engine/assets"
	"github.com/robalobadob/wordle/engine/internal/game"
)

// ErrNoAnswers is returned when a word source yields no usable solution words.
var ErrNoAnswers = errors.New("words: answers list is empty")

// Rand is the randomness PickSolution draws from. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Dictionary is an immutable set of valid guesses plus the ordered
// solution-eligible subset.
type Dictionary struct {
	answers     []string
	answerIndex map[string]int
	allowed     map[string]struct{}
	fingerprint string
}

// New builds a Dictionary. Inputs are normalized and deduplicated; answers keep
// their first-seen order, which is what solution codes index into.
func New(answers, allowed []string) (*Dictionary, error) {
	ans := normalizeList(answers)
	if len(ans) == 0 {
		return nil, ErrNoAnswers
	}

	d := &Dictionary{
		answers:     ans,
		answerIndex: make(map[string]int, len(ans)),
		allowed:     make(map[string]struct{}, len(ans)+len(allowed)),
	}
	for i, w := range ans {
		d.answerIndex[w] = i
		d.allowed[w] = struct{}{}
	}
	for _, w := range normalizeList(allowed) {
		d.allowed[w] = struct{}{}
	}
	d.fingerprint = fingerprint(ans)
	return d, nil
}

// Load reads word lists from the given paths, falling back to the embedded
// defaults when neither path is set.
func Load(answersPath, allowedPath string) (*Dictionary, error) {
	switch {
	case answersPath != "" && allowedPath != "":
		ans, err := readWordFile(answersPath)
		if err != nil {
			return nil, err
		}
		all, err := readWordFile(allowedPath)
		if err != nil {
			return nil, err
		}
		return New(ans, all)

	case allowedPath != "":
		all, err := readWordFile(allowedPath)
		if err != nil {
			return nil, err
		}
		return New(all, all)

	case answersPath != "":
		ans, err := readWordFile(answersPath)
		if err != nil {
			return nil, err
		}
		return New(ans, nil)

	default:
		return Embedded()
	}
}

// Embedded builds a Dictionary from the lists compiled into the binary.
func Embedded() (*Dictionary, error) {
	ans, err := parseWords(bytes.NewReader(assets.Answers), "embedded answers")
	if err != nil {
		return nil, err
	}
	all, err := parseWords(bytes.NewReader(assets.Allowed), "embedded allowed")
	if err != nil {
		return nil, err
	}
	return New(ans, all)
}

// readWordFile loads a word file from disk.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word file: %w", err)
	}
	defer f.Close()
	return parseWords(f, path)
}

// parseWords reads one word per line. Comment and blank lines are skipped;
// normalization happens in New.
func parseWords(r io.Reader, name string) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return out, nil
}

// Normalize case-folds s and reports whether the result is a well-formed word:
// exactly game.Width ASCII letters.
func Normalize(s string) (string, bool) {
	w := cases.Fold().String(strings.TrimSpace(s))
	if len(w) != game.Width || !isAlpha(w) {
		return w, false
	}
	return w, true
}

func normalizeList(list []string) []string {
	folded := lo.FilterMap(list, func(s string, _ int) (string, bool) {
		return Normalize(s)
	})
	return lo.Uniq(folded)
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// IsValidGuess reports whether w is in the full valid-word set, regardless of
// whether it can be a solution.
func (d *Dictionary) IsValidGuess(w string) bool {
	n, ok := Normalize(w)
	if !ok {
		return false
	}
	_, ok = d.allowed[n]
	return ok
}

// IsSolution reports whether w is solution-eligible.
func (d *Dictionary) IsSolution(w string) bool {
	n, ok := Normalize(w)
	if !ok {
		return false
	}
	_, ok = d.answerIndex[n]
	return ok
}

// PickSolution returns a uniformly random solution-eligible word.
func (d *Dictionary) PickSolution(rng Rand) string {
	return d.answers[rng.IntN(len(d.answers))]
}

// At returns the i-th solution-eligible word.
func (d *Dictionary) At(i int) (string, bool) {
	if i < 0 || i >= len(d.answers) {
		return "", false
	}
	return d.answers[i], true
}

// Answers returns a copy of the ordered solution-eligible list.
func (d *Dictionary) Answers() []string {
	return append([]string(nil), d.answers...)
}

// Stats returns counts of loaded words: (answers, allowed).
func (d *Dictionary) Stats() (answersCount int, allowedCount int) {
	return len(d.answers), len(d.allowed)
}

type cryptoRand struct {
	src io.Reader
}

// CryptoRand returns a Rand backed by crypto/rand. IntN panics if the system
// random source fails, rather than dealing a predictable word.
func CryptoRand() Rand { return cryptoRand{src: rand.Reader} }

func (c cryptoRand) IntN(n int) int {
	v, err := rand.Int(c.src, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Errorf("words: read random source: %w", err))
	}
	return int(v.Int64())
}
