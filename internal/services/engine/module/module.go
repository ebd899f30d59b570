// Package module wires the engine service as a module.Module
package module

import (
	"jakebot/internal/adapters/board/gateway"
	"jakebot/internal/adapters/board/memboard"
	"jakebot/internal/core/posts"
	"jakebot/internal/modkit"
	"jakebot/internal/modkit/httpkit"
	modreg "jakebot/internal/modkit/module"

	"jakebot/internal/services/engine/domain"
	"jakebot/internal/services/engine/service"
	jdom "jakebot/internal/services/journal/domain"
	statedom "jakebot/internal/services/state/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// Ports exported by the engine module
type Ports struct {
	Runner domain.RunnerPort
	Status domain.StatusPort
	Svc    *service.Svc
}

// Collaborators are the engine's outside world. A nil Board is built from Options.Board
type Collaborators struct {
	Board    domain.Board
	Store    statedom.Store
	Journal  jdom.Recorder
	Registry *prometheus.Registry
}

// Module implements module.Module for the engine
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// New validates opts and wires the engine
func New(deps modkit.Deps, opts Options, c Collaborators) (*Module, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if c.Board == nil {
		c.Board = NewBoard(opts)
	}

	svc := service.New(service.Deps{
		Board:    c.Board,
		Store:    c.Store,
		Journal:  c.Journal,
		Registry: c.Registry,
	}, service.Config{
		BoardID:        opts.BoardID,
		OriginalAuthor: opts.OriginalAuthor,
		Name:           opts.Name,
		Bio:            opts.Bio,
		Aliases:        opts.Aliases,
		Signalers:      opts.Signalers,
		PollInterval:   opts.PollInterval,
		MaxProxyAge:    opts.MaxProxyAge,
		MaxPosts:       opts.MaxPosts,
		CycleBackoff:   opts.CycleBackoff,
		ProxyJitterMax: opts.ProxyJitterMax,
		TempLinger:     opts.TempLinger,
		IDMode:         posts.IDMode(opts.IDMode),
		ExportFormat:   opts.Format(),
		Loc:            opts.Location(),
	})

	m := &Module{deps: deps, opts: opts}
	m.ports = Ports{Runner: svc, Status: svc, Svc: svc}
	return m, nil
}

// NewBoard builds the board adapter named by opts.Board.Kind
func NewBoard(opts Options) domain.Board {
	if opts.Board.Kind == "memory" {
		return memboard.New(opts.Name)
	}
	return gateway.New(gateway.Options{
		BaseURL:    opts.Board.GatewayURL,
		BoardID:    opts.BoardID,
		BoardURL:   opts.BoardURL,
		Token:      opts.Board.Token,
		Email:      opts.Board.Email,
		Password:   opts.Board.Password,
		Timeout:    opts.Board.Timeout,
		MaxRetries: opts.Board.Retries,
	})
}

// Options returns the resolved options
func (m *Module) Options() Options { return m.opts }

// Name returns the module name
func (m *Module) Name() string { return "engine" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// MountRoutes is a no-op: the status API reads the engine through its ports
func (m *Module) MountRoutes(_ httpkit.Router) {}

// Register builds the module and stores its ports in the registry
func Register(deps modkit.Deps, opts Options, c Collaborators) (*Module, error) {
	m, err := New(deps, opts, c)
	if err != nil {
		return nil, err
	}
	modreg.Register("engine", m.ports)
	return m, nil
}
