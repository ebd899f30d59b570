// Package normalize folds author names and command aliases into comparison keys
// and cleans the visible text of posts
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	},
}

// Fold returns the comparison key for s, so "Ｊａｋｅ", "jake" and "JAKE" all fold to "jake"
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	fs, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		fs = strings.ToLower(s)
	}
	return strings.Join(strings.Fields(fs), " ")
}

// Equal reports whether a and b fold to the same non-empty key
func Equal(a, b string) bool {
	fa := Fold(a)
	return fa != "" && fa == Fold(b)
}

// Text cleans visible post text: valid UTF-8 in NFC, spaces collapsed within each line,
// blank lines dropped and edges trimmed
func Text(s string) string {
	s = norm.NFC.String(strings.ToValidUTF8(s, ""))
	lines := strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' })
	out := lines[:0]
	for _, ln := range lines {
		if ln = strings.Join(strings.Fields(ln), " "); ln != "" {
			out = append(out, ln)
		}
	}
	return strings.Join(out, "\n")
}
