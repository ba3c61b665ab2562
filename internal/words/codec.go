package words

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// ErrBadSolutionCode is returned when a code does not decode to a word of this
// Dictionary: malformed, out of range, or produced from a different answer list.
var ErrBadSolutionCode = errors.New("words: bad solution code")

// Solution codes have the form "<index base36>.<list fingerprint>". The index makes
// the encoding a bijection over the answer list; the fingerprint ties it to that
// exact list so an edited word file can never silently decode to another word.

// EncodeSolution returns the code for a solution-eligible word.
func (d *Dictionary) EncodeSolution(word string) (string, error) {
	n, _ := Normalize(word)
	i, ok := d.answerIndex[n]
	if !ok {
		return "", fmt.Errorf("encode %q: not a solution word", word)
	}
	return strconv.FormatInt(int64(i), 36) + "." + d.fingerprint, nil
}

// DecodeSolution reverses EncodeSolution.
func (d *Dictionary) DecodeSolution(code string) (string, error) {
	idx, fp, ok := strings.Cut(code, ".")
	if !ok || fp != d.fingerprint {
		return "", ErrBadSolutionCode
	}
	i, err := strconv.ParseInt(idx, 36, 32)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadSolutionCode, err)
	}
	w, ok := d.At(int(i))
	if !ok {
		return "", ErrBadSolutionCode
	}
	return w, nil
}

// fingerprint is a short BLAKE2b digest of the ordered answer list.
func fingerprint(answers []string) string {
	sum := blake2b.Sum256([]byte(strings.Join(answers, "\n")))
	return hex.EncodeToString(sum[:4])
}
