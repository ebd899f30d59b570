package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"jakebot/internal/platform/config"
	phttp "jakebot/internal/platform/net/http"
	"jakebot/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

func fetchDoc(t *testing.T) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, config.New(), true)
	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	var spec map[string]any
	if rr.Code == http.StatusOK {
		if err := json.Unmarshal(rr.Body.Bytes(), &spec); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return rr, spec
}

func TestDocJSONDefaults(t *testing.T) {
	t.Setenv("JAKEBOT_API_DOCS_TITLE_SUFFIX", "(dev)")
	rr, spec := fetchDoc(t)
	if rr.Code != http.StatusOK {
		t.Fatalf("code = %d", rr.Code)
	}
	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi = %v", spec["openapi"])
	}
	if title := spec["info"].(map[string]any)["title"]; title != "jakebot status API (dev)" {
		t.Fatalf("title = %v", title)
	}
	servers := spec["servers"].([]any)
	if servers[0].(map[string]any)["url"] != "/api/v1" {
		t.Fatalf("servers = %v", servers)
	}
	op := spec["paths"].(map[string]any)["/engine/status"].(map[string]any)["get"].(map[string]any)
	if _, ok := op["responses"].(map[string]any)["500"]; !ok {
		t.Fatal("default 500 missing")
	}
	schemas := spec["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := schemas["ErrorResponse"]; !ok {
		t.Fatal("ErrorResponse schema missing")
	}
}

func TestDocJSONMutatorsAndBadDoc(t *testing.T) {
	testkit.Swap(t, &mutators, nil)
	Register(func(spec map[string]any) { spec["x-board"] = "abc" })
	if _, spec := fetchDoc(t); spec["x-board"] != "abc" {
		t.Fatalf("mutator not applied: %v", spec["x-board"])
	}

	testkit.Swap(t, &docReader, func() string { return "{" })
	if rr, _ := fetchDoc(t); rr.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", rr.Code)
	}
}

func TestMountDisabled(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, config.New(), false)
	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("code = %d", rr.Code)
	}
}
