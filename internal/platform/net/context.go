// Package net holds request scoped helpers shared by the http layers
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestID returns the chi request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}
