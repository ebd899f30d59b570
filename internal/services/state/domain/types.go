// Package domain holds the persisted engine state record and the store port
package domain

import "context"

// Snapshot is the persisted subset of engine state
type Snapshot struct {
	SeenPostIDs      []string `json:"seenPostIds"`
	AutoproxyEnabled bool     `json:"autoproxyEnabled"`
	Signalers        []string `json:"signalers,omitempty"`
}

// Defaults is what a fresh install starts with: nothing seen, autoproxy on
func Defaults() Snapshot {
	return Snapshot{SeenPostIDs: []string{}, AutoproxyEnabled: true}
}

// Store loads and saves snapshots.
// Load never fails: unreadable or partial records fall back to Defaults field by field
type Store interface {
	Load(ctx context.Context) Snapshot
	Save(ctx context.Context, s Snapshot) error
	Name() string
}
