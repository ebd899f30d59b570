// Package posts turns a raw board export into structured Post records
package posts

import (
	"strings"
	"time"

	"jakebot/internal/core/timestamp"
	perr "jakebot/internal/platform/errors"
)

// Post is one board entry as seen in a single export. It is never mutated after Normalize builds it
type Post struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	Author       string     `json:"author"`
	RawTimestamp string     `json:"raw_timestamp"`
	Parsed       *time.Time `json:"parsed,omitempty"`
}

// Text is the title and body joined the way the board shows them
func (p Post) Text() string {
	switch {
	case p.Body == "":
		return p.Title
	case p.Title == "":
		return p.Body
	default:
		return p.Title + "\n\n" + p.Body
	}
}

// Format is the shape of a raw export
type Format string

const (
	// FormatAuto sniffs the body: a leading "<" means html, anything else markdown
	FormatAuto Format = "auto"
	// FormatMarkdown is the board's markdown export
	FormatMarkdown Format = "markdown"
	// FormatHTML is a DOM snapshot of the board page
	FormatHTML Format = "html"
)

// ParseFormat maps a config or content type string onto a Format
func ParseFormat(s string) Format {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "markdown", s == "md", strings.Contains(s, "markdown"):
		return FormatMarkdown
	case s == "html", strings.Contains(s, "html"):
		return FormatHTML
	default:
		return FormatAuto
	}
}

// Export is the raw board content returned by the board collaborator
type Export struct {
	Format Format
	Body   string
}

// IDMode picks how post ids are synthesized
type IDMode string

const (
	// IDSynth is raw timestamp text plus a bounded title prefix
	IDSynth IDMode = "synth"
	// IDStrong hashes author, timestamp, title and body
	IDStrong IDMode = "strong"
)

// Options configures a Normalizer
type Options struct {
	IDMode      IDMode
	TitlePrefix int
	Parser      timestamp.Parser
}

// Normalizer builds posts from exports
type Normalizer struct {
	opt Options
}

// DefaultTitlePrefix bounds the title part of a synthesized id, in grapheme clusters
const DefaultTitlePrefix = 50

// New constructs a Normalizer with defaults filled in
func New(opt Options) *Normalizer {
	if opt.IDMode == "" {
		opt.IDMode = IDSynth
	}
	if opt.TitlePrefix <= 0 {
		opt.TitlePrefix = DefaultTitlePrefix
	}
	return &Normalizer{opt: opt}
}

// Normalize splits the export into posts in board order.
// Blocks with neither title nor body are skipped; timestamps are parsed immediately
func (n *Normalizer) Normalize(e Export) ([]Post, error) {
	f := e.Format
	if f == "" || f == FormatAuto {
		f = sniff(e.Body)
	}

	var blocks []block
	switch f {
	case FormatMarkdown:
		blocks = markdownBlocks(e.Body)
	case FormatHTML:
		var err error
		if blocks, err = htmlBlocks(e.Body); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeParse, "parse html export")
		}
	default:
		return nil, perr.Parsef("unsupported export format %q", f)
	}

	out := make([]Post, 0, len(blocks))
	for _, b := range blocks {
		p, ok := n.build(b)
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// FromMarkdown normalizes a markdown export with default options
func FromMarkdown(raw string) []Post {
	ps, _ := New(Options{}).Normalize(Export{Format: FormatMarkdown, Body: raw})
	return ps
}

// FromHTML normalizes a DOM snapshot with default options
func FromHTML(raw string) ([]Post, error) {
	return New(Options{}).Normalize(Export{Format: FormatHTML, Body: raw})
}

func (n *Normalizer) build(b block) (Post, bool) {
	title := stripMarkup(b.title)
	body := joinParagraphs(b.paragraphs)
	if title == "" && body == "" {
		return Post{}, false
	}

	p := Post{
		Title:        title,
		Body:         body,
		Author:       cleanAuthor(b.author),
		RawTimestamp: strings.TrimSpace(b.rawTS),
	}
	p.Parsed = n.opt.Parser.Parse(p.RawTimestamp)

	switch {
	case b.domID != "":
		p.ID = "dom:" + b.domID
	case n.opt.IDMode == IDStrong:
		p.ID = StrongID(p.Author, p.RawTimestamp, p.Title, p.Body)
	default:
		p.ID = SynthID(p.RawTimestamp, p.Title, n.opt.TitlePrefix)
	}
	return p, true
}

func sniff(body string) Format {
	if strings.HasPrefix(strings.TrimSpace(body), "<") {
		return FormatHTML
	}
	return FormatMarkdown
}

// block is the format independent intermediate form
type block struct {
	domID      string
	title      string
	author     string
	rawTS      string
	paragraphs []string
}
