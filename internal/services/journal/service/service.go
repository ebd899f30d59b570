// Package service writes journal entries to ClickHouse in batches
package service

import (
	"context"
	"sync"

	"jakebot/internal/platform/logger"
	"jakebot/internal/platform/store"
	"jakebot/internal/services/journal/domain"
)

// Config carries the table name and buffer bound
type Config struct {
	Table  string
	MaxBuf int
}

// Svc buffers entries in memory until Flush
type Svc struct {
	ch  store.Clickhouse
	cfg Config
	log *logger.Logger

	mu  sync.Mutex
	buf []domain.Entry
}

// New constructs a journal writer over a ClickHouse seam
func New(ch store.Clickhouse, cfg Config) *Svc {
	if ch == nil {
		panic("journal.Service requires a non nil Clickhouse")
	}
	if cfg.Table == "" {
		cfg.Table = "jakebot_journal"
	}
	if cfg.MaxBuf <= 0 {
		cfg.MaxBuf = 10_000
	}
	return &Svc{ch: ch, cfg: cfg, log: logger.Named("journal")}
}

// Schema returns the DDL for the journal table
func (s *Svc) Schema() string {
	return `CREATE TABLE IF NOT EXISTS ` + s.cfg.Table + ` (
	at        DateTime64(3),
	cycle_id  String,
	post_id   String,
	author    String,
	outcome   LowCardinality(String),
	command   LowCardinality(String),
	posted_at DateTime64(3)
) ENGINE = MergeTree ORDER BY (at, cycle_id)`
}

// Migrate creates the table when missing
func (s *Svc) Migrate(ctx context.Context) error {
	return s.ch.Exec(ctx, s.Schema())
}

// Record buffers e; past MaxBuf the oldest entries are dropped
func (s *Svc) Record(_ context.Context, e domain.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.buf) >= s.cfg.MaxBuf {
		s.buf = s.buf[1:]
	}
	s.buf = append(s.buf, e)
}

// Pending returns the number of buffered entries
func (s *Svc) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf)
}

// Flush sends buffered entries as one batch. On failure the entries are dropped and logged
func (s *Svc) Flush(ctx context.Context) error {
	s.mu.Lock()
	batch := s.buf
	s.buf = nil
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(batch))
	for _, e := range batch {
		rows = append(rows, []any{e.At, e.CycleID, e.PostID, e.Author, string(e.Outcome), e.Command, e.PostedAt})
	}
	if err := s.ch.Insert(ctx, s.cfg.Table, rows); err != nil {
		logger.C(ctx).Warn().Err(err).Int("rows", len(rows)).Str("table", s.cfg.Table).Msg("journal flush failed")
		return err
	}
	return nil
}
