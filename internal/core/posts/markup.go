package posts

import (
	"regexp"
	"strings"

	"jakebot/internal/core/normalize"
)

var (
	reLink       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	reBold       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	reItalic     = regexp.MustCompile(`\*([^*\s][^*]*)\*`)
	reUnderscore = regexp.MustCompile(`(^|[^\w])_{1,2}([^_]+?)_{1,2}([^\w]|$)`)
	reStrike     = regexp.MustCompile(`~~([^~]+)~~`)
	reBreak      = regexp.MustCompile(`(?i)<br\s*/?>`)
	reTag        = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	reParens     = regexp.MustCompile(`\s*\([^)]*\)`)
)

// stripMarkup removes mention links, emphasis and inline html, keeping the visible text
func stripMarkup(s string) string {
	s = reBreak.ReplaceAllString(s, "\n")
	s = reTag.ReplaceAllString(s, "")
	s = reLink.ReplaceAllString(s, "$1")
	s = reBold.ReplaceAllString(s, "$1")
	s = reItalic.ReplaceAllString(s, "$1")
	s = reUnderscore.ReplaceAllString(s, "$1$2$3")
	s = reStrike.ReplaceAllString(s, "$1")
	return normalize.Text(s)
}

// joinParagraphs strips each fragment, drops blank or <br>-only ones and joins with a blank line
func joinParagraphs(frags []string) string {
	kept := make([]string, 0, len(frags))
	for _, f := range frags {
		if c := stripMarkup(f); c != "" {
			kept = append(kept, c)
		}
	}
	return strings.Join(kept, "\n\n")
}

// cleanAuthor drops parenthetical decoration such as "(alex123)" or "(edited)"
func cleanAuthor(s string) string {
	return normalize.Text(reParens.ReplaceAllString(stripMarkup(s), ""))
}
