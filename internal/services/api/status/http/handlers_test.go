package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jakebot/internal/modkit/httpkit"
	phttp "jakebot/internal/platform/net/http"
	statushttp "jakebot/internal/services/api/status/http"
	enginedom "jakebot/internal/services/engine/domain"

	"github.com/go-chi/chi/v5"
)

type fixedStatus struct{ st enginedom.Status }

func (f fixedStatus) Status() enginedom.Status { return f.st }

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

var now = time.Date(2025, time.March, 5, 15, 10, 0, 0, time.UTC)

func get(t *testing.T, d statushttp.Deps, path string, data any) int {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	statushttp.Register(r, d)
	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))

	env := httpkit.Envelope{Data: data}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return rr.Code
}

func TestStatus(t *testing.T) {
	d := statushttp.Deps{Engine: fixedStatus{enginedom.Status{
		Autoproxy:   true,
		Lifecycle:   "running",
		Uptime:      3725 * time.Second,
		UptimeHuman: "1 hour 2 minutes",
		Seen:        4,
		QueueDepth:  1,
		Signalers:   []string{"🐨"},
		BoardID:     "abc123",
	}}}

	var got statushttp.StatusResponse
	if code := get(t, d, "/status", &got); code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if !got.Autoproxy || got.Uptime != 3725 || got.Seen != 4 || got.QueueDepth != 1 || got.BoardID != "abc123" {
		t.Fatalf("status = %+v", got)
	}
	if got.Version == "" || len(got.Signalers) != 1 {
		t.Fatalf("status = %+v", got)
	}
}

func TestStatusWithoutEngine(t *testing.T) {
	if code := get(t, statushttp.Deps{}, "/status", nil); code != http.StatusServiceUnavailable {
		t.Fatalf("code = %d", code)
	}
}

func TestHealth(t *testing.T) {
	d := statushttp.Deps{
		ServiceName: "jakebot",
		StartedAt:   now.Add(-time.Minute),
		Now:         func() time.Time { return now },
	}
	var got statushttp.HealthResponse
	get(t, d, "/health", &got)
	if !got.OK || got.Service != "jakebot" || got.Started != "2025-03-05T15:09:00Z" || got.Now != "2025-03-05T15:10:00Z" {
		t.Fatalf("health = %+v", got)
	}
}

func TestReady(t *testing.T) {
	running := fixedStatus{enginedom.Status{Lifecycle: "running"}}
	leaving := fixedStatus{enginedom.Status{Lifecycle: "shutting_down"}}

	cases := []struct {
		name string
		d    statushttp.Deps
		want string
	}{
		{"no stores", statushttp.Deps{Engine: running}, "ok"},
		{"pg ok", statushttp.Deps{Engine: running, PG: pinger{}}, "ok"},
		{"ch down", statushttp.Deps{Engine: running, PG: pinger{}, CH: pinger{errors.New("refused")}}, "fail"},
		{"shutting down", statushttp.Deps{Engine: leaving}, "degraded"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var got statushttp.ReadyResponse
			get(t, c.d, "/ready", &got)
			if got.Status != c.want || len(got.Checks) != 2 {
				t.Fatalf("ready = %+v", got)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	var got map[string]string
	get(t, statushttp.Deps{}, "/version", &got)
	if got["service"] != "jakebot" {
		t.Fatalf("version = %v", got)
	}
}
