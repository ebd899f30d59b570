package posts

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/rivo/uniseg"
)

// SynthID is the raw timestamp text joined to the first n grapheme clusters of the title.
// Two posts with the same title in the same minute collide; IDStrong avoids that
func SynthID(rawTS, title string, n int) string {
	return rawTS + "|" + TitlePrefix(title, n)
}

// StrongID hashes author, timestamp and content into a 32 char hex key
func StrongID(author, rawTS, title, body string) string {
	h := sha256.New()
	for _, part := range []string{author, rawTS, title, body} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// TitlePrefix returns at most n grapheme clusters of s so emoji and flags are never split
func TitlePrefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for i := 0; i < n && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	return b.String()
}
