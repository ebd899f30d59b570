// Package http serves the read-only engine endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"jakebot/internal/core/version"
	"jakebot/internal/modkit/httpkit"
	perr "jakebot/internal/platform/errors"

	enginedom "jakebot/internal/services/engine/domain"
)

// Pinger is satisfied by store adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies. PG and CH may be nil
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Engine      enginedom.StatusPort
	PG          Pinger
	CH          Pinger
	Now         func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the engine routes
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/status", h.status)
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
}

// StatusResponse is the engine snapshot. Uptime is whole seconds
type StatusResponse struct {
	Autoproxy   bool     `json:"autoproxy"    example:"true"`
	Lifecycle   string   `json:"lifecycle"    example:"running"`
	Uptime      int64    `json:"uptime"       example:"3725"`
	UptimeHuman string   `json:"uptime_human" example:"1 hour 2 minutes"`
	Seen        int      `json:"seen"         example:"42"`
	QueueDepth  int      `json:"queue_depth"  example:"0"`
	Signalers   []string `json:"signalers"`
	BoardID     string   `json:"board_id"     example:"abc123"`
	Version     string   `json:"version"      example:"v0.1.0"`
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"jakebot"`
	Started string `json:"started" example:"2025-03-05T15:00:00Z"`
	Now     string `json:"now"     example:"2025-03-05T15:10:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"` // ok fail skipped
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2025-03-05T15:10:00Z"`
}

// @Summary Engine state, uptime and queue depth
// @Tags Engine
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /engine/status [get]
func (h *handlers) status(_ *http.Request) (any, error) {
	if h.deps.Engine == nil {
		return nil, perr.Unavailablef("engine not wired")
	}
	st := h.deps.Engine.Status()
	return StatusResponse{
		Autoproxy:   st.Autoproxy,
		Lifecycle:   st.Lifecycle,
		Uptime:      int64(st.Uptime / time.Second),
		UptimeHuman: st.UptimeHuman,
		Seen:        st.Seen,
		QueueDepth:  st.QueueDepth,
		Signalers:   st.Signalers,
		BoardID:     st.BoardID,
		Version:     version.Info().Version,
	}, nil
}

// @Summary Liveness with service start time
// @Tags Engine
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /engine/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

// @Summary Readiness with store checks
// @Tags Engine
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /engine/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	check := func(name string, p Pinger) ReadyCheck {
		if p == nil {
			return ReadyCheck{Name: name, Status: "skipped"}
		}
		if err := p.Ping(ctx); err != nil {
			return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
		}
		return ReadyCheck{Name: name, Status: "ok"}
	}

	checks := []ReadyCheck{check("pg", h.deps.PG), check("ch", h.deps.CH)}

	// optional stores that are not configured do not degrade readiness
	overall := "ok"
	for _, c := range checks {
		if c.Status == "fail" {
			overall = "fail"
		}
	}
	if overall == "ok" && h.deps.Engine != nil && h.deps.Engine.Status().Lifecycle != enginedom.Running.String() {
		overall = "degraded"
	}

	return ReadyResponse{
		Status: overall,
		Checks: checks,
		Now:    h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

// @Summary Build and version info
// @Tags Engine
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /engine/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}
