package modkit

import (
	"net/http"

	"jakebot/internal/modkit/httpkit"
)

// Router is the router seam modules mount against
type Router = httpkit.Router

// Built is a plain struct with the fields modules care about
type Built struct {
	Name      string
	Prefix    string
	Mw        []func(http.Handler) http.Handler
	Ports     any
	Subrouter func(Router) Router
	Register  func(Router)
}

// Build applies Option funcs and returns a plain struct with hook defaults filled in
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.subrouter == nil {
		c.subrouter = func(r Router) Router { return r }
	}
	if c.register == nil {
		c.register = func(Router) {}
	}
	return Built{
		Name:      c.name,
		Prefix:    c.prefix,
		Mw:        append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:     c.ports,
		Subrouter: c.subrouter,
		Register:  c.register,
	}
}
