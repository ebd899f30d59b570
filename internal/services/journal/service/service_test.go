package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"jakebot/internal/platform/store"
	"jakebot/internal/platform/testkit"
	"jakebot/internal/services/journal/domain"
	"jakebot/internal/services/journal/service"
)

type fakeCH struct {
	table string
	rows  [][]any
	ddl   string
	err   error
}

func (f *fakeCH) Insert(_ context.Context, table string, data any) error {
	if f.err != nil {
		return f.err
	}
	f.table = table
	f.rows = append(f.rows, data.([][]any)...)
	return nil
}

func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.ddl = sql
	return nil
}

func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (f *fakeCH) Close() error                                              { return nil }

func TestFlushWritesBatch(t *testing.T) {
	ch := &fakeCH{}
	s := service.New(ch, service.Config{Table: "j"})
	ctx := context.Background()
	at := time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC)

	s.Record(ctx, domain.Entry{CycleID: "c1", PostID: "p1", Author: "Alex", Outcome: domain.OutcomeSignal, At: at, PostedAt: at.Add(-time.Minute)})
	s.Record(ctx, domain.Entry{CycleID: "c1", PostID: "p2", Outcome: domain.OutcomeCommand, Command: "STATUS", At: at})
	if s.Pending() != 2 {
		t.Fatalf("pending = %d", s.Pending())
	}
	if err := s.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if ch.table != "j" || len(ch.rows) != 2 {
		t.Fatalf("table %q rows %v", ch.table, ch.rows)
	}
	if ch.rows[1][4] != "command" || ch.rows[1][5] != "STATUS" {
		t.Fatalf("row = %v", ch.rows[1])
	}
	if posted, ok := ch.rows[0][6].(time.Time); !ok || !posted.Equal(at.Add(-time.Minute)) {
		t.Fatalf("posted_at = %v", ch.rows[0][6])
	}
	if s.Pending() != 0 {
		t.Fatalf("buffer not cleared")
	}
	if err := s.Flush(ctx); err != nil {
		t.Fatalf("empty flush: %v", err)
	}
}

func TestFlushFailureDropsBatch(t *testing.T) {
	ch := &fakeCH{err: errors.New("down")}
	s := service.New(ch, service.Config{})
	ctx := context.Background()
	s.Record(ctx, domain.Entry{PostID: "p"})
	if err := s.Flush(ctx); err == nil {
		t.Fatal("expected error")
	}
	if s.Pending() != 0 {
		t.Fatalf("failed batch should be dropped")
	}
}

func TestRecordBound(t *testing.T) {
	s := service.New(&fakeCH{}, service.Config{MaxBuf: 2})
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		s.Record(ctx, domain.Entry{})
	}
	if s.Pending() != 2 {
		t.Fatalf("pending = %d", s.Pending())
	}
}

func TestMigrateAndDefaults(t *testing.T) {
	ch := &fakeCH{}
	s := service.New(ch, service.Config{})
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatal(err)
	}
	testkit.MustContain(t, ch.ddl, "CREATE TABLE IF NOT EXISTS jakebot_journal")
	testkit.MustPanic(t, func() { service.New(nil, service.Config{}) })
}
