// Package domain defines the activity journal record and port
package domain

import (
	"context"
	"time"
)

// Outcome is what happened to one post in one cycle
type Outcome string

const (
	OutcomeSeen     Outcome = "seen"
	OutcomeStale    Outcome = "stale"
	OutcomeFiltered Outcome = "filtered"
	OutcomeCommand  Outcome = "command"
	OutcomeSignal   Outcome = "signal"
	OutcomeMuted    Outcome = "muted"
	OutcomePlain    Outcome = "plain"
)

// Entry is one journal row
type Entry struct {
	CycleID string
	PostID  string
	Author  string
	Outcome Outcome
	Command string
	At      time.Time
	// PostedAt is the post's own timestamp, zero when it did not parse
	PostedAt time.Time
}

// Recorder buffers entries and writes them out on Flush.
// Implementations log their own failures; callers never act on them
type Recorder interface {
	Record(ctx context.Context, e Entry)
	Flush(ctx context.Context) error
}

// Nop discards everything
type Nop struct{}

// Record implements Recorder
func (Nop) Record(context.Context, Entry) {}

// Flush implements Recorder
func (Nop) Flush(context.Context) error { return nil }
