// Package module wires the state store and exposes it as a port
package module

import (
	"context"

	"jakebot/internal/modkit"
	"jakebot/internal/modkit/httpkit"
	modreg "jakebot/internal/modkit/module"

	"jakebot/internal/services/state/domain"
	"jakebot/internal/services/state/repo"
)

// Ports exported by the state module
type Ports struct {
	Store domain.Store
}

// Module implements module.Module for state
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// New constructs the state module; overrides win over config when non-zero
func New(deps modkit.Deps, overrides Options) *Module {
	opts := FromConfig(deps.Cfg)
	if overrides.Backend != "" {
		opts.Backend = overrides.Backend
	}
	if overrides.Path != "" {
		opts.Path = overrides.Path
	}
	if overrides.Key != "" {
		opts.Key = overrides.Key
	}

	var st domain.Store
	switch opts.Backend {
	case "pg":
		if deps.PG == nil {
			panic("state backend pg requires SERVICE_PGSQL_DBURL")
		}
		st = repo.NewPG(deps.PG, opts.Key)
	default:
		st = repo.NewFile(opts.Path)
	}

	m := &Module{deps: deps, opts: opts}
	m.ports = Ports{Store: st}
	return m
}

// Migrate prepares the backend; only pg has anything to do
func (m *Module) Migrate(ctx context.Context) error {
	if p, ok := m.ports.Store.(*repo.PG); ok {
		return p.Migrate(ctx)
	}
	return nil
}

// Options returns the resolved options
func (m *Module) Options() Options { return m.opts }

// Name returns the module name
func (m *Module) Name() string { return "state" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// MountRoutes is a no-op: state has no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}

// Register stores the module ports in the registry
func Register(deps modkit.Deps, overrides Options) *Module {
	m := New(deps, overrides)
	modreg.Register("state", m.ports)
	return m
}
