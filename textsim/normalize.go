// Package textsim provides text normalization and string similarity for
// comparing OCR'd paragraph text across two renderings of a document.
package textsim

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalize folds a string into the canonical form used for comparison:
// Unicode compatibility normalization (NFKC), wide/narrow folding,
// katakana folded to hiragana, lowercase, punctuation and symbols folded
// to spaces, and whitespace runs collapsed to single spaces.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	s = width.Fold.String(s)
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'ァ' && r <= 'ヶ':
			// Katakana to the corresponding hiragana codepoint.
			b.WriteRune(r - 0x60)
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
