// Package api mounts the read-only HTTP surface of the bot
package api

import (
	"net/http"

	"jakebot/internal/modkit"
	"jakebot/internal/modkit/httpkit"
	"jakebot/internal/modkit/module"
	"jakebot/internal/modkit/swaggerkit"
	"jakebot/internal/platform/config"
	phttp "jakebot/internal/platform/net/http"
	"jakebot/internal/platform/store"

	statusmod "jakebot/internal/services/api/status/module"
	enginedom "jakebot/internal/services/engine/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Engine         enginedom.StatusPort
	Gatherer       prometheus.Gatherer
	EnableSwagger  bool
	EnableProfiler bool
}

// FromConfig reads JAKEBOT_API_SWAGGER and JAKEBOT_API_PPROF
func FromConfig(cfg config.Conf) Options {
	a := cfg.Prefix("JAKEBOT_API_")
	return Options{
		Config:         cfg,
		EnableSwagger:  a.MayBool("SWAGGER", true),
		EnableProfiler: a.MayBool("PPROF", false),
	}
}

// Mount mounts /healthz, /metrics, docs, pprof and the versioned engine routes
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
	}

	mods := []module.Module{
		statusmod.New(deps, modkit.WithPorts(statusmod.Ports{Engine: opt.Engine})),
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		phttp.JSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	if opt.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opt.Gatherer, promhttp.HandlerOpts{}))
	}
	swaggerkit.Mount(r, opt.Config, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
}
