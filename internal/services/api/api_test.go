package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jakebot/internal/platform/config"
	phttp "jakebot/internal/platform/net/http"
	"jakebot/internal/services/api"
	enginedom "jakebot/internal/services/engine/domain"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

type engine struct{}

func (engine) Status() enginedom.Status {
	return enginedom.Status{Autoproxy: true, Lifecycle: "running", BoardID: "abc123"}
}

func mounted(t *testing.T) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "jakebot_test_total", Help: "test"}))

	opt := api.FromConfig(config.New())
	opt.Engine = engine{}
	opt.Gatherer = reg

	r := phttp.AdaptChi(chi.NewRouter())
	api.Mount(r, opt)
	return r.Mux()
}

func TestMountedRoutes(t *testing.T) {
	h := mounted(t)
	cases := []struct {
		path string
		want string
	}{
		{"/healthz", `{"ok":true}`},
		{"/metrics", "jakebot_test_total 0"},
		{"/api/v1/engine/status", `"board_id":"abc123"`},
		{"/api/v1/engine/health", `"service":"jakebot"`},
		{"/api/v1/engine/version", `"service":"jakebot"`},
		{"/api/docs/doc.json", `"/engine/status"`},
	}
	for _, c := range cases {
		t.Run(c.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, c.path, nil))
			if rr.Code != http.StatusOK {
				t.Fatalf("code = %d body %s", rr.Code, rr.Body.String())
			}
			if !strings.Contains(rr.Body.String(), c.want) {
				t.Fatalf("body %s missing %s", rr.Body.String(), c.want)
			}
		})
	}
}

func TestStatusIsReadOnly(t *testing.T) {
	h := mounted(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/engine/status", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("code = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/engine/status", nil))
	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Data["autoproxy"] != true {
		t.Fatalf("data = %v", env.Data)
	}
}
