package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"jakebot/internal/core/posts"
	perr "jakebot/internal/platform/errors"
)

func newTestClient(t *testing.T, h http.HandlerFunc, o Options) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	o.BaseURL = srv.URL
	if o.BoardID == "" {
		o.BoardID = "abc123"
	}
	o.RetryBase = time.Millisecond
	return New(o)
}

func TestFetchExport(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/boards/abc123/export" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("auth = %q", got)
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte("## 1. hi\n"))
	}, Options{Token: "tok"})

	exp, err := c.FetchExport(context.Background())
	if err != nil {
		t.Fatalf("FetchExport: %v", err)
	}
	if exp.Format != posts.FormatMarkdown || exp.Body != "## 1. hi\n" {
		t.Fatalf("export = %+v", exp)
	}
}

func TestPostAndDelete(t *testing.T) {
	var got map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/boards/abc123/posts":
			_ = json.NewDecoder(r.Body).Decode(&got)
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodDelete && r.URL.Path == "/v1/boards/abc123/posts":
			deleted := r.URL.Query().Get("match") == "[Hello & bye]"
			_ = json.NewEncoder(w).Encode(map[string]bool{"deleted": deleted})
		case r.Method == http.MethodDelete && r.URL.Path == "/v1/boards/abc123/posts/latest":
			w.WriteHeader(http.StatusNotFound)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}, Options{})

	ctx := context.Background()
	if err := c.PostContent(ctx, "Hello", "body"); err != nil {
		t.Fatalf("PostContent: %v", err)
	}
	if got["title"] != "Hello" || got["body"] != "body" {
		t.Fatalf("payload = %v", got)
	}

	ok, err := c.DeletePost(ctx, "[Hello & bye]")
	if err != nil || !ok {
		t.Fatalf("DeletePost = %v, %v", ok, err)
	}
	ok, err = c.DeletePost(ctx, "other")
	if err != nil || ok {
		t.Fatalf("DeletePost(other) = %v, %v", ok, err)
	}

	if err := c.DeleteMostRecentPost(ctx); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}, Options{MaxRetries: 3})

	if err := c.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d", calls.Load())
	}
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   perr.ErrorCode
	}{
		{http.StatusBadRequest, perr.ErrorCodeInvalidArgument},
		{http.StatusUnauthorized, perr.ErrorCodeUnauthorized},
		{http.StatusForbidden, perr.ErrorCodeUnauthorized},
		{http.StatusNotFound, perr.ErrorCodeNotFound},
		{http.StatusTooManyRequests, perr.ErrorCodeTooManyRequests},
		{http.StatusBadGateway, perr.ErrorCodeUnavailable},
	}
	for _, tc := range cases {
		err := statusError("GET", "/x", tc.status, "")
		if !perr.IsCode(err, tc.want) {
			t.Errorf("%d: want %s, got %v", tc.status, tc.want, perr.CodeOf(err))
		}
	}
}

func TestSignInOnce(t *testing.T) {
	var logins atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/session" {
			logins.Add(1)
			var in map[string]string
			_ = json.NewDecoder(r.Body).Decode(&in)
			if in["email"] != "jake@example.com" || in["password"] != "pw" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "sess"})
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sess" {
			t.Errorf("auth = %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}, Options{Email: "jake@example.com", Password: "pw"})

	ctx := context.Background()
	for range 3 {
		if err := c.Release(ctx); err != nil {
			t.Fatalf("Release: %v", err)
		}
	}
	if logins.Load() != 1 {
		t.Fatalf("logins = %d", logins.Load())
	}
}

func TestSignInRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, Options{Email: "jake@example.com", Password: "nope"})

	if _, err := c.FetchExport(context.Background()); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("want unauthorized, got %v", err)
	}
}
