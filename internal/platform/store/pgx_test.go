package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	perr "jakebot/internal/platform/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeConn serves canned rows and records statements
type fakeConn struct {
	cols    []string
	data    [][]any
	err     error
	scanErr error
	sqls    []string
}

func (c *fakeConn) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	c.sqls = append(c.sqls, sql)
	return pgconn.NewCommandTag("INSERT 0 1"), c.err
}

func (c *fakeConn) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	c.sqls = append(c.sqls, sql)
	if c.err != nil {
		return nil, c.err
	}
	return &fakePgxRows{cols: c.cols, data: c.data, i: -1}, nil
}

func (c *fakeConn) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	c.sqls = append(c.sqls, sql)
	return fakeRow{data: c.data, err: c.scanErr}
}

type fakeRow struct {
	data [][]any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(r.data) == 0 {
		return pgx.ErrNoRows
	}
	return assign(dest, r.data[0])
}

type fakePgxRows struct {
	cols []string
	data [][]any
	i    int
}

func (r *fakePgxRows) Close()                        {}
func (r *fakePgxRows) Err() error                    { return nil }
func (r *fakePgxRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *fakePgxRows) Next() bool                    { r.i++; return r.i < len(r.data) }
func (r *fakePgxRows) Scan(dest ...any) error        { return assign(dest, r.data[r.i]) }
func (r *fakePgxRows) Values() ([]any, error)        { return r.data[r.i], nil }
func (r *fakePgxRows) RawValues() [][]byte           { return nil }
func (r *fakePgxRows) Conn() *pgx.Conn               { return nil }
func (r *fakePgxRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		out[i] = pgconn.FieldDescription{Name: c}
	}
	return out
}

func assign(dest []any, row []any) error {
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(row[i]))
	}
	return nil
}

type observed struct {
	sql string
	err error
}

func traced(c *fakeConn) (tracedQuerier, *[]observed) {
	var got []observed
	return tracedQuerier{conn: c, observe: func(_ context.Context, sql string, _ []any, _ time.Time, err error) {
		got = append(got, observed{sql, err})
	}}, &got
}

func TestTracedQuerierReportsEachStatement(t *testing.T) {
	conn := &fakeConn{cols: []string{"n"}, data: [][]any{{7}}}
	q, got := traced(conn)
	ctx := context.Background()

	tag, err := q.Exec(ctx, "INSERT")
	if err != nil || tag.RowsAffected() != 1 {
		t.Fatalf("Exec = %v %v", tag, err)
	}
	rows, err := q.Query(ctx, "SELECT n")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if cols := rows.Columns(); !reflect.DeepEqual(cols, []string{"n"}) {
		t.Fatalf("Columns = %v", cols)
	}
	rows.Close()

	var n int
	if err := q.QueryRow(ctx, "SELECT 1").Scan(&n); err != nil || n != 7 {
		t.Fatalf("QueryRow = %d %v", n, err)
	}
	if len(*got) != 3 || (*got)[2].sql != "SELECT 1" {
		t.Fatalf("observed = %+v", *got)
	}
}

func TestTracedQuerierReportsErrors(t *testing.T) {
	boom := errors.New("boom")
	q, got := traced(&fakeConn{err: boom, scanErr: boom})
	ctx := context.Background()

	if _, err := q.Query(ctx, "SELECT"); !errors.Is(err, boom) {
		t.Fatalf("Query err = %v", err)
	}
	var n int
	if err := q.QueryRow(ctx, "SELECT 1").Scan(&n); !errors.Is(err, boom) {
		t.Fatalf("Scan err = %v", err)
	}
	for _, o := range *got {
		if !errors.Is(o.err, boom) {
			t.Fatalf("observed without error: %+v", o)
		}
	}
}

func TestOne(t *testing.T) {
	scan := func(r Row) (string, error) {
		var s string
		return s, r.Scan(&s)
	}
	ctx := context.Background()

	q, _ := traced(&fakeConn{data: [][]any{{"a"}}})
	if v, err := One(ctx, q, scan, "SELECT"); err != nil || v != "a" {
		t.Fatalf("One = %q %v", v, err)
	}

	q, _ = traced(&fakeConn{})
	if _, err := One(ctx, q, scan, "SELECT"); !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("empty One = %v", err)
	}

	q, _ = traced(&fakeConn{data: [][]any{{"a"}, {"b"}}})
	if _, err := One(ctx, q, scan, "SELECT"); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("two rows One = %v", err)
	}
}

func TestScalar(t *testing.T) {
	q, _ := traced(&fakeConn{data: [][]any{{42}}})
	v, err := Scalar[int](context.Background(), q, "SELECT 42")
	if err != nil || v != 42 {
		t.Fatalf("Scalar = %d %v", v, err)
	}

	q, _ = traced(&fakeConn{})
	if _, err := Scalar[int](context.Background(), q, "SELECT"); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("Scalar no rows = %v", err)
	}
}
