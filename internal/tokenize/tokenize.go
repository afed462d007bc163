// Package tokenize implements the deterministic, stateless tokenizer shared
// by indexing and query paths so that BM25 scoring stays consistent between
// the two.
package tokenize

import (
	"strings"
	"unicode"
)

// Tokenize lowercases s and splits it on any run of non-alphanumeric
// characters, dropping empty tokens. Lowercasing is the per-rune Unicode
// lowercase mapping of strings.ToLower.
func Tokenize(s string) []string {
	lower := strings.ToLower(s)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
