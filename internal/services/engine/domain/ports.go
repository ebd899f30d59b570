package domain

import (
	"context"

	"jakebot/internal/core/posts"
)

// Board is the external action surface: a browser session or a gateway in front of one
type Board interface {
	// FetchExport returns the current board content
	FetchExport(ctx context.Context) (posts.Export, error)
	// PostContent creates an entry as the signed in identity
	PostContent(ctx context.Context, title, body string) error
	// DeletePost removes an entry whose visible text contains matching and reports whether one went
	DeletePost(ctx context.Context, matching string) (bool, error)
	// DeleteMostRecentPost removes the newest entry
	DeleteMostRecentPost(ctx context.Context) error
	// Release ends the external session
	Release(ctx context.Context) error
}

// RunnerPort runs the polling loop until SHUTDOWN or ctx is done
type RunnerPort interface {
	Run(ctx context.Context) error
}

// StatusPort exposes a read-only view of the engine
type StatusPort interface {
	Status() Status
}
