package pg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"jakebot/internal/platform/logger"

	"github.com/rs/zerolog"
)

func TestCompact(t *testing.T) {
	cases := map[string]string{
		"select 1":                           "select 1",
		"  select   1  ":                     "select 1",
		"SELECT\t*\nFROM\r\tt WHERE  a =  1": "SELECT * FROM t WHERE a = 1",
		"":                                   "",
	}
	for in, want := range cases {
		if got := Compact(in); got != want {
			t.Fatalf("Compact(%q) = %q want %q", in, got, want)
		}
	}
}

func TestTracerLevels(t *testing.T) {
	var buf bytes.Buffer
	tr := Tracer(zerolog.New(&buf))

	type line struct {
		Level     string  `json:"level"`
		ElapsedMS float64 `json:"elapsed_ms"`
		Slow      bool    `json:"slow"`
		SQL       string  `json:"sql"`
		Args      int     `json:"args"`
		Error     string  `json:"error"`
		Component string  `json:"component"`
		CycleID   string  `json:"cycle_id"`
	}
	read := func() line {
		t.Helper()
		var l line
		if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &l); err != nil {
			t.Fatalf("decode %q: %v", buf.String(), err)
		}
		buf.Reset()
		return l
	}

	ctx := logger.WithCycle(context.Background(), "c-1")
	tr.OnQuery(ctx, QueryEvent{SQL: "SELECT  *\n FROM t", Args: []any{1, "two"}, Elapsed: 12345 * time.Microsecond})
	l := read()
	if l.Level != "info" || l.SQL != "SELECT * FROM t" || l.Args != 2 || l.Component != "pg" || l.CycleID != "c-1" {
		t.Fatalf("info line = %+v", l)
	}
	if l.ElapsedMS < 12.34 || l.ElapsedMS > 12.35 {
		t.Fatalf("elapsed_ms = %v", l.ElapsedMS)
	}

	tr.OnQuery(context.Background(), QueryEvent{SQL: "SELECT 1", Slow: true})
	if l := read(); l.Level != "warn" || !l.Slow || l.CycleID != "" {
		t.Fatalf("slow line = %+v", l)
	}

	tr.OnQuery(context.Background(), QueryEvent{SQL: "SELECT 1", Err: errors.New("boom")})
	if l := read(); l.Level != "warn" || l.Error != "boom" {
		t.Fatalf("error line = %+v", l)
	}
}
