package store

import (
	"context"
	"time"

	"jakebot/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxConn is the statement surface shared by the pool and an open transaction
type pgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type observeFunc func(ctx context.Context, sql string, args []any, start time.Time, err error)

// tracedQuerier runs statements on conn and reports each one when it finishes.
// QueryRow reports after Scan so the scan error is included
type tracedQuerier struct {
	conn    pgxConn
	observe observeFunc
}

func (q tracedQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := q.conn.Exec(ctx, sql, args...)
	q.observe(ctx, sql, args, start, err)
	return ct, err
}

func (q tracedQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := q.conn.Query(ctx, sql, args...)
	q.observe(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return pgxRows{rs}, nil
}

func (q tracedQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := q.conn.QueryRow(ctx, sql, args...)
	return scanHook{r: r, done: func(err error) { q.observe(ctx, sql, args, start, err) }}
}

// pgxDB is the TxRunner over a pool
type pgxDB struct {
	tracedQuerier
	pg *pg.PG
}

func newPGXDB(p *pg.PG) *pgxDB {
	return &pgxDB{tracedQuerier: tracedQuerier{conn: p.Pool, observe: p.Observe}, pg: p}
}

// Tx commits when fn returns nil and rolls back otherwise
func (d *pgxDB) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := d.pg.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tracedQuerier{conn: tx, observe: d.pg.Observe}); err != nil {
		_ = tx.Rollback(context.WithoutCancel(ctx))
		return err
	}
	return tx.Commit(ctx)
}

func (d *pgxDB) Ping(ctx context.Context) error {
	_, err := Scalar[int](ctx, d, "SELECT 1")
	return err
}

func (d *pgxDB) Close() error {
	d.pg.Close()
	return nil
}

type scanHook struct {
	r    pgx.Row
	done func(error)
}

func (s scanHook) Scan(dest ...any) error {
	err := s.r.Scan(dest...)
	s.done(err)
	return err
}

type pgxRows struct{ pgx.Rows }

func (r pgxRows) Columns() []string {
	fds := r.FieldDescriptions()
	out := make([]string, len(fds))
	for i, fd := range fds {
		out[i] = fd.Name
	}
	return out
}
