package posts

import (
	"regexp"
	"strings"
)

var (
	reHeading = regexp.MustCompile(`^\s*#{1,6}\s*\d+[.)]\s*(.*)$`)
	reAuthor  = regexp.MustCompile(`(?i)^author\s*:\s*(.*)$`)
	reUpdated = regexp.MustCompile(`(?i)^updated(?:\s+at)?\s*:\s*(.*)$`)
	reCreated = regexp.MustCompile(`(?i)^created(?:\s+at)?\s*:\s*(.*)$`)
	reRule    = regexp.MustCompile(`^\s*(?:-{3,}|\*{3,}|_{3,})\s*$`)
)

// markdownBlocks splits on numbered headings ("## 3. Title"). Text before the first heading
// is board chrome and is ignored
func markdownBlocks(raw string) []block {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	var (
		out  []block
		cur  *block
		para []string
	)
	flushPara := func() {
		if cur != nil && len(para) > 0 {
			cur.paragraphs = append(cur.paragraphs, strings.Join(para, "\n"))
		}
		para = para[:0]
	}
	created := ""
	flushBlock := func() {
		flushPara()
		if cur != nil {
			if cur.rawTS == "" {
				cur.rawTS = created
			}
			out = append(out, *cur)
		}
	}

	for _, ln := range lines {
		if m := reHeading.FindStringSubmatch(ln); m != nil {
			flushBlock()
			cur = &block{title: strings.TrimSpace(m[1])}
			created = ""
			continue
		}
		if cur == nil {
			continue
		}
		if strings.TrimSpace(ln) == "" || reRule.MatchString(ln) {
			flushPara()
			continue
		}
		if meta(cur, ln, &created) {
			continue
		}
		para = append(para, ln)
	}
	flushBlock()
	return out
}

// meta consumes "Author:" and "Updated At:" field lines into b.
// A "Created At:" value is kept aside and only used when no update time exists
func meta(b *block, ln string, created *string) bool {
	s := stripMarkup(ln)
	if m := reAuthor.FindStringSubmatch(s); m != nil {
		if b.author == "" {
			b.author = m[1]
		}
		return true
	}
	if m := reUpdated.FindStringSubmatch(s); m != nil {
		if b.rawTS == "" {
			b.rawTS = m[1]
		}
		return true
	}
	if m := reCreated.FindStringSubmatch(s); m != nil {
		if *created == "" {
			*created = m[1]
		}
		return true
	}
	return false
}
