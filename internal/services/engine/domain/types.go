// Package domain defines the engine state, jobs and ports
package domain

import (
	"errors"
	"sync"
	"time"

	"jakebot/internal/core/posts"
	statedom "jakebot/internal/services/state/domain"
)

// ErrShutdown is returned by Run after a SHUTDOWN command has been carried out
var ErrShutdown = errors.New("engine: shutdown requested")

// DefaultSignalers are used when neither config nor saved state names any
var DefaultSignalers = []string{"\U0001F428", "[", "]"}

// Lifecycle is the process state, separate from autoproxy
type Lifecycle uint8

const (
	// Running is the normal state
	Running Lifecycle = iota
	// ShuttingDown is terminal
	ShuttingDown
)

func (l Lifecycle) String() string {
	if l == ShuttingDown {
		return "shutting_down"
	}
	return "running"
}

// EngineState is the single owned mutable state of the engine.
// The polling loop writes it; the status API reads it, hence the lock
type EngineState struct {
	mu        sync.RWMutex
	seen      map[string]struct{}
	order     []string
	autoproxy bool
	signalers []string
	lifecycle Lifecycle
	startedAt time.Time
}

// NewEngineState builds state from a snapshot. startedAt should come from time.Now so
// uptime uses the monotonic clock
func NewEngineState(s statedom.Snapshot, startedAt time.Time) *EngineState {
	e := &EngineState{startedAt: startedAt}
	e.Restore(s)
	return e
}

// Restore replaces persisted fields with s; uptime and lifecycle are untouched
func (e *EngineState) Restore(s statedom.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seen = make(map[string]struct{}, len(s.SeenPostIDs))
	e.order = e.order[:0]
	for _, id := range s.SeenPostIDs {
		if _, dup := e.seen[id]; dup {
			continue
		}
		e.seen[id] = struct{}{}
		e.order = append(e.order, id)
	}
	e.autoproxy = s.AutoproxyEnabled
	e.signalers = append([]string(nil), s.Signalers...)
}

// Seen reports whether id was already processed
func (e *EngineState) Seen(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.seen[id]
	return ok
}

// MarkSeen adds id and reports whether it was new
func (e *EngineState) MarkSeen(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.seen[id]; ok {
		return false
	}
	e.seen[id] = struct{}{}
	e.order = append(e.order, id)
	return true
}

// SeenCount is the size of the seen set
func (e *EngineState) SeenCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.order)
}

// Autoproxy reports whether signal posts are acted on
func (e *EngineState) Autoproxy() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.autoproxy
}

// SetAutoproxy sets the flag and reports whether it changed
func (e *EngineState) SetAutoproxy(on bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	changed := e.autoproxy != on
	e.autoproxy = on
	return changed
}

// Signalers returns a copy of the active markers
func (e *EngineState) Signalers() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.signalers...)
}

// Lifecycle returns the process state
func (e *EngineState) Lifecycle() Lifecycle {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lifecycle
}

// BeginShutdown moves to ShuttingDown; there is no way back
func (e *EngineState) BeginShutdown() {
	e.mu.Lock()
	e.lifecycle = ShuttingDown
	e.mu.Unlock()
}

// Uptime is time since process start
func (e *EngineState) Uptime() time.Duration {
	return time.Since(e.startedAt)
}

// Snapshot copies the persisted fields, seen ids in first-seen order
func (e *EngineState) Snapshot() statedom.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return statedom.Snapshot{
		SeenPostIDs:      append([]string{}, e.order...),
		AutoproxyEnabled: e.autoproxy,
		Signalers:        append([]string(nil), e.signalers...),
	}
}

// JobKind says what a queued job does on the board
type JobKind uint8

const (
	// JobProxy reposts a signal post without markers and removes the original
	JobProxy JobKind = iota
	// JobReply posts a command reply
	JobReply
	// JobTemporary posts an entry that is removed again after a linger period
	JobTemporary
	// JobCleanup removes the entry matching Match
	JobCleanup
	// JobDeleteRecent removes the newest entry on the board
	JobDeleteRecent
)

func (k JobKind) String() string {
	switch k {
	case JobProxy:
		return "proxy"
	case JobReply:
		return "reply"
	case JobTemporary:
		return "temporary"
	case JobCleanup:
		return "cleanup"
	case JobDeleteRecent:
		return "delete_recent"
	default:
		return "unknown"
	}
}

// Job is one unit of board work. Post is set for JobProxy, Title and Body for
// replies, Match for cleanups
type Job struct {
	ID    string
	Kind  JobKind
	Post  posts.Post
	Title string
	Body  string
	Match string
}

// Status is a read-only view for the status API and the STATUS command
type Status struct {
	Autoproxy   bool          `json:"autoproxy"`
	Lifecycle   string        `json:"lifecycle"`
	Uptime      time.Duration `json:"uptime"`
	UptimeHuman string        `json:"uptime_human"`
	Seen        int           `json:"seen"`
	QueueDepth  int           `json:"queue_depth"`
	Signalers   []string      `json:"signalers"`
	BoardID     string        `json:"board_id"`
}
