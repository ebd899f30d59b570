// Package module defines the contract every wired component satisfies and a
// small port registry used while composing the process in main
package module

import (
	phttp "jakebot/internal/platform/net/http"
)

// Module is what main composes: a name, a port set, and optional routes
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
