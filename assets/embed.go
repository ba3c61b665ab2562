// assets/embed.go
//
// Default word lists compiled into the binary. The engine runs with these when no
// word files are configured through WORDS_ANSWERS_FILE / WORDS_ALLOWED_FILE.
//
//   - answers.txt: solution-eligible words. Their order is part of every saved
//     game's solution code, so append new words rather than re-sorting.
//   - allowed.txt: extra valid guesses (answers are always allowed).
//
// Both use the word-file format read by internal/words: one word per line,
// blank lines and "#" comments ignored.
package assets

import _ "embed"

//go:embed answers.txt
var Answers []byte

//go:embed allowed.txt
var Allowed []byte
