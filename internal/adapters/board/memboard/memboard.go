// Package memboard is an in-memory board for tests and dry runs. It renders the same
// markdown export the real board produces, so the whole pipeline runs against it
package memboard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"jakebot/internal/core/posts"
	perr "jakebot/internal/platform/errors"
)

// Entry is one post on the board
type Entry struct {
	ID     int
	Title  string
	Body   string
	Author string
	At     time.Time
}

func (e Entry) text() string {
	return e.Title + "\n" + e.Body
}

// Action is a record of one call made against the board
type Action struct {
	Kind  string
	Title string
	Body  string
	Match string
	OK    bool
}

// Board is safe for concurrent use
type Board struct {
	identity string
	now      func() time.Time

	mu       sync.Mutex
	entries  []Entry
	actions  []Action
	nextID   int
	released bool
}

// New returns an empty board; posts made through the port are authored by identity
func New(identity string) *Board {
	return &Board{identity: identity, now: time.Now}
}

// WithClock replaces the clock used to stamp new entries
func (b *Board) WithClock(now func() time.Time) *Board {
	b.now = now
	return b
}

// Add puts an entry on the board as someone else would
func (b *Board) Add(title, body, author string, at time.Time) Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.add(title, body, author, at)
}

func (b *Board) add(title, body, author string, at time.Time) Entry {
	b.nextID++
	e := Entry{ID: b.nextID, Title: title, Body: body, Author: author, At: at}
	b.entries = append(b.entries, e)
	return e
}

// Entries returns the board content, oldest first
func (b *Board) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Entry(nil), b.entries...)
}

// Actions returns every port call made so far
func (b *Board) Actions() []Action {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Action(nil), b.actions...)
}

// Released reports whether Release was called
func (b *Board) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}

// FetchExport renders the board newest first in the board's markdown export layout
func (b *Board) FetchExport(context.Context) (posts.Export, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var sb strings.Builder
	sb.WriteString("# Board\n\n")
	for i := range b.entries {
		e := b.entries[len(b.entries)-1-i]
		fmt.Fprintf(&sb, "## %d. %s\n", i+1, e.Title)
		fmt.Fprintf(&sb, "**Author:** %s\n", e.Author)
		fmt.Fprintf(&sb, "**Updated At:** %s\n\n", e.At.Format("3:04 PM • January 2, 2006"))
		if e.Body != "" {
			sb.WriteString(e.Body)
			sb.WriteString("\n\n")
		}
		sb.WriteString("---\n\n")
	}
	return posts.Export{Format: posts.FormatMarkdown, Body: sb.String()}, nil
}

// PostContent adds an entry authored by the board identity
func (b *Board) PostContent(_ context.Context, title, body string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.add(title, body, b.identity, b.now())
	b.actions = append(b.actions, Action{Kind: "post", Title: title, Body: body, OK: true})
	return nil
}

// DeletePost removes the newest entry whose text contains matching
func (b *Board) DeletePost(_ context.Context, matching string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ok := false
	for i := len(b.entries) - 1; i >= 0; i-- {
		if matching != "" && strings.Contains(b.entries[i].text(), matching) {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			ok = true
			break
		}
	}
	b.actions = append(b.actions, Action{Kind: "delete", Match: matching, OK: ok})
	return ok, nil
}

// DeleteMostRecentPost removes the newest entry
func (b *Board) DeleteMostRecentPost(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) == 0 {
		b.actions = append(b.actions, Action{Kind: "delete_recent"})
		return perr.NotFoundf("board is empty")
	}
	b.entries = b.entries[:len(b.entries)-1]
	b.actions = append(b.actions, Action{Kind: "delete_recent", OK: true})
	return nil
}

// Release marks the session as ended
func (b *Board) Release(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.released = true
	b.actions = append(b.actions, Action{Kind: "release", OK: true})
	return nil
}
