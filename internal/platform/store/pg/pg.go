// Package pg opens the pgx pool behind the store's sql seam
package pg

import (
	"context"
	"time"

	perr "jakebot/internal/platform/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL      string
	MaxConns int32
	// App is reported to the server as application_name
	App string
	// Slow marks statements at or above it; zero disables the mark
	Slow time.Duration
}

// PG is a pool plus the optional statement tracer
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	Slow   time.Duration
}

// Option adjusts the pool config or the client before the pool is created
type Option func(*pgxpool.Config, *PG)

// WithTracer reports every statement to t
func WithTracer(t QueryTracer) Option {
	return func(_ *pgxpool.Config, p *PG) { p.Tracer = t }
}

// WithPoolConfig hands the parsed pool config to fn
func WithPoolConfig(fn func(*pgxpool.Config)) Option {
	return func(c *pgxpool.Config, _ *PG) { fn(c) }
}

var newPool = pgxpool.NewWithConfig

// Open parses the url and creates the pool. No connection is made until first use
func Open(ctx context.Context, cfg Config, opts ...Option) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "parse postgres url")
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.App != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.App
	}

	p := &PG{Slow: cfg.Slow}
	for _, o := range opts {
		o(pcfg, p)
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "create postgres pool")
	}
	p.Pool = pool
	return p, nil
}

// Observe reports a finished statement to the tracer, if any
func (p *PG) Observe(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if p == nil || p.Tracer == nil {
		return
	}
	d := time.Since(start)
	p.Tracer.OnQuery(ctx, QueryEvent{
		SQL:     sql,
		Args:    args,
		Elapsed: d,
		Err:     err,
		Slow:    p.Slow > 0 && d >= p.Slow,
	})
}

// Close closes the pool; safe on nil
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
