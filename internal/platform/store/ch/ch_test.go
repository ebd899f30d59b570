package ch

import (
	"context"
	"testing"

	perr "jakebot/internal/platform/errors"
)

func TestOpen_RejectsEmptyAndBadDSN(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if _, err := Open(ctx, Config{}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("empty url: %v", err)
	}
	if _, err := Open(ctx, Config{URL: "clickhouse://host:notaport/db"}); err == nil {
		t.Fatalf("bad dsn should fail")
	}
}

func TestClientInfo(t *testing.T) {
	t.Parallel()

	ci := ClientInfo(" journal ", "v1")
	if len(ci.Products) != 4 {
		t.Fatalf("products = %+v", ci.Products)
	}
	if ci.Products[0].Name != "jakebot" || ci.Products[0].Version != "v1" {
		t.Fatalf("first product = %+v", ci.Products[0])
	}
	if ci.Products[1].Version != "journal" {
		t.Fatalf("role not trimmed: %q", ci.Products[1].Version)
	}
	if ci.Products[2].Name != "commit" || ci.Products[2].Version == "" {
		t.Fatalf("commit product = %+v", ci.Products[2])
	}

	if got := ClientInfo("engine", "  ").Products[0].Version; got != "dev" {
		t.Fatalf("empty tag should fall back to the build version, got %q", got)
	}
}

func TestInsert_EmptyIsNoop(t *testing.T) {
	t.Parallel()

	c := New(nil)
	if err := c.Insert(context.Background(), "t", nil); err != nil {
		t.Fatalf("empty insert: %v", err)
	}
}
