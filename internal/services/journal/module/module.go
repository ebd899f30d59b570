// Package module wires the activity journal
package module

import (
	"context"

	"jakebot/internal/modkit"
	"jakebot/internal/modkit/httpkit"
	"jakebot/internal/platform/config"

	"jakebot/internal/services/journal/domain"
	"jakebot/internal/services/journal/service"
)

// Options for the journal
type Options struct {
	Table  string
	MaxBuf int
}

// FromConfig reads options using the JAKEBOT_JOURNAL_ prefix
// JAKEBOT_JOURNAL_TABLE (default "jakebot_journal")
// JAKEBOT_JOURNAL_MAX_BUF (default 10000) bounds entries held between flushes
func FromConfig(cfg config.Conf) Options {
	j := cfg.Prefix("JAKEBOT_JOURNAL_")
	return Options{
		Table:  j.MayString("TABLE", "jakebot_journal"),
		MaxBuf: j.MayInt("MAX_BUF", 10_000),
	}
}

// Ports exported by the journal module
type Ports struct {
	Recorder domain.Recorder
}

// Module implements module.Module for the journal
type Module struct {
	deps  modkit.Deps
	svc   *service.Svc
	ports Ports
}

// New builds the ClickHouse journal when deps.CH is set, otherwise a Nop recorder
func New(deps modkit.Deps) *Module {
	m := &Module{deps: deps}
	if deps.CH == nil {
		m.ports = Ports{Recorder: domain.Nop{}}
		return m
	}
	opts := FromConfig(deps.Cfg)
	m.svc = service.New(deps.CH, service.Config{Table: opts.Table, MaxBuf: opts.MaxBuf})
	m.ports = Ports{Recorder: m.svc}
	return m
}

// Enabled reports whether entries go anywhere
func (m *Module) Enabled() bool { return m.svc != nil }

// Migrate creates the journal table when enabled
func (m *Module) Migrate(ctx context.Context) error {
	if m.svc == nil {
		return nil
	}
	return m.svc.Migrate(ctx)
}

// Name returns the module name
func (m *Module) Name() string { return "journal" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// MountRoutes is a no-op: the journal has no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
