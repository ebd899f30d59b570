// Package timestamp turns the textual timestamps shown on a board into instants.
// Each grammar lives behind its own pure Match function so it can be tested alone;
// Parser chains them in order absolute, relative, generic
package timestamp

import (
	"strings"
	"time"

	ptime "jakebot/internal/platform/time"
)

// Kind says which grammar produced a result
type Kind uint8

const (
	// KindNone means nothing parsed
	KindNone Kind = iota
	// KindAbsolute is a wall clock date and time
	KindAbsolute
	// KindRelative is an offset back from now ("5 minutes ago")
	KindRelative
	// KindGeneric is anything the fallback date parser understood
	KindGeneric
)

func (k Kind) String() string {
	switch k {
	case KindAbsolute:
		return "absolute"
	case KindRelative:
		return "relative"
	case KindGeneric:
		return "generic"
	default:
		return "none"
	}
}

// Result is the outcome of a Parse call
type Result struct {
	Kind Kind
	At   time.Time
}

// Parser resolves timestamps in Loc against Now.
// Zero value uses time.Local and time.Now
type Parser struct {
	Loc *time.Location
	Now func() time.Time
}

// Default is the process wide parser
var Default = Parser{}

// Parse returns the instant for s or nil when no grammar matches
func Parse(s string) *time.Time { return Default.Parse(s) }

// ParseAt parses s with relative offsets resolved against now
func ParseAt(s string, now time.Time) *time.Time {
	p := Parser{Loc: Default.Loc, Now: func() time.Time { return now }}
	return p.Parse(s)
}

// Parse returns the instant for s or nil when no grammar matches
func (p Parser) Parse(s string) *time.Time {
	r := p.Resolve(s)
	if r.Kind == KindNone {
		return nil
	}
	return ptime.Ptr(r.At)
}

// Resolve runs every grammar in order and reports which one matched.
// Relative results are computed from the wall clock at call time, so callers should
// resolve right after reading the raw text
func (p Parser) Resolve(s string) Result {
	s = strings.TrimSpace(s)
	if s == "" {
		return Result{}
	}
	loc := p.location()

	if a, ok := MatchAbsolute(s); ok {
		return Result{Kind: KindAbsolute, At: a.In(loc)}
	}
	if r, ok := MatchRelative(s); ok {
		return Result{Kind: KindRelative, At: r.From(p.now())}
	}
	if t, ok := MatchGeneric(s, loc); ok {
		return Result{Kind: KindGeneric, At: t}
	}
	return Result{}
}

func (p Parser) location() *time.Location {
	if p.Loc != nil {
		return p.Loc
	}
	return time.Local
}

func (p Parser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
