// Package module mounts the read-only engine endpoints as a modkit module
package module

import (
	"net/http"
	"time"

	modkit "jakebot/internal/modkit"
	"jakebot/internal/modkit/httpkit"
	str "jakebot/internal/platform/strings"

	statushttp "jakebot/internal/services/api/status/http"
	enginedom "jakebot/internal/services/engine/domain"
)

// Ports declares the injected engine port this module reads from
type Ports struct {
	Engine enginedom.StatusPort
}

// Module implements module.Module for the status endpoints
type Module struct {
	deps      modkit.Deps
	name      string
	prefix    string
	mws       []func(http.Handler) http.Handler
	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
	ports     Ports
	startedAt time.Time
}

// New builds the module; inject the engine with modkit.WithPorts(Ports{...})
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("status"),
		modkit.WithPrefix("/engine"),
	}, opts...)...)

	p, _ := b.Ports.(Ports)
	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		ports:     p,
		startedAt: time.Now(),
	}

	hd := statushttp.Deps{
		ServiceName: "jakebot",
		StartedAt:   m.startedAt,
		Engine:      p.Engine,
	}
	if pg, ok := deps.PG.(statushttp.Pinger); ok {
		hd.PG = pg
	}
	if ch, ok := deps.CH.(statushttp.Pinger); ok {
		hd.CH = ch
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		statushttp.Register(r, hd)
		external(r)
	}
	return m
}

// MountRoutes implements module.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		if len(m.mws) > 0 {
			rr.Use(m.mws...)
		}
		m.register(m.subrouter(rr))
	})
}

// Name implements module.Module
func (m *Module) Name() string { return str.MustString(m.name, "status") }

// Prefix returns the mount prefix under the versioned api
func (m *Module) Prefix() string { return m.prefix }

// Ports implements module.Module
func (m *Module) Ports() any { return m.ports }
