package service

import (
	"time"

	"jakebot/internal/core/posts"
	"jakebot/internal/services/engine/domain"
)

// Verdict is the outcome of the dedup and freshness check
type Verdict uint8

const (
	// Fresh posts go on to classification
	Fresh Verdict = iota
	// Seen posts were handled in an earlier cycle
	Seen
	// Stale posts have no parseable timestamp or are older than MaxAge
	Stale
)

func (v Verdict) String() string {
	switch v {
	case Seen:
		return "seen"
	case Stale:
		return "stale"
	default:
		return "fresh"
	}
}

// Filter marks posts seen before judging freshness, so a stale post is never looked at twice
type Filter struct {
	State  *domain.EngineState
	MaxAge time.Duration
	Now    func() time.Time
}

// Check records p as seen and classifies it
func (f Filter) Check(p posts.Post) Verdict {
	if !f.State.MarkSeen(p.ID) {
		return Seen
	}
	if p.Parsed == nil {
		return Stale
	}
	if f.now().Sub(*p.Parsed) > f.MaxAge {
		return Stale
	}
	return Fresh
}

// Accept reports whether p should be classified
func (f Filter) Accept(p posts.Post) bool { return f.Check(p) == Fresh }

func (f Filter) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}
