// Package reply reduces a generated answer to the single word returned to clients.
package reply

import (
	"regexp"
	"strings"
	"unicode"
)

var nonWord = regexp.MustCompile(`[^\w]`)

// LastWord strips "**" emphasis markers, trims surrounding whitespace as
// isTrimSpace defines it, splits on single spaces and returns the last token with
// every non-word character removed.
// Runs of spaces and punctuation-only tokens are not special-cased, so the result
// may be empty.
func LastWord(text string) string {
	cleaned := strings.TrimFunc(strings.ReplaceAll(text, "**", ""), isTrimSpace)
	words := strings.Split(cleaned, " ")
	return nonWord.ReplaceAllString(words[len(words)-1], "")
}

// isTrimSpace is the ECMAScript String.prototype.trim set: Unicode white space
// and line terminators plus U+FEFF, but not U+0085.
func isTrimSpace(r rune) bool {
	return r == '\uFEFF' || (r != '\u0085' && unicode.IsSpace(r))
}
