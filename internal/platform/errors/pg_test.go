package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pg(code string) *pgconn.PgError { return &pgconn.PgError{Code: code} }

func TestDBErrorCodeMappings(t *testing.T) {
	cases := []struct {
		code string
		want ErrorCode
	}{
		{"23505", ErrorCodeConflict},
		{"42P01", ErrorCodeNotFound},
		{"25006", ErrorCodeUnavailable},
		{"57P03", ErrorCodeUnavailable},
		{"40001", ErrorCodeDB},
		{"XXXXX", ErrorCodeDB},
	}
	for _, c := range cases {
		got, ok := DBErrorCode(pg(c.code))
		if !ok {
			t.Fatalf("expected ok for PgError code %s", c.code)
		}
		if got != c.want {
			t.Fatalf("DBErrorCode(%s) = %v, want %v", c.code, got, c.want)
		}
	}
	if _, ok := DBErrorCode(stderrs.New("nope")); ok {
		t.Fatalf("DBErrorCode should return ok=false for non-pg error")
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil {
		t.Fatalf("FromPostgres(nil) should be nil")
	}
	err := FromPostgres(fmt.Errorf("exec: %w", pg("42P01")), "load state")
	if !IsCode(err, ErrorCodeNotFound) {
		t.Fatalf("code = %v, want not found", CodeOf(err))
	}
	if !IsUndefinedTable(err) {
		t.Fatalf("IsUndefinedTable should see through wrapping")
	}
	if !IsCode(FromPostgres(stderrs.New("conn reset"), "save"), ErrorCodeDB) {
		t.Fatalf("foreign error should map to DB")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"serialization", pg("40001"), true},
		{"cannot connect", pg("57P03"), true},
		{"unique", pg("23505"), false},
		{"text deadlock", stderrs.New("ERROR: deadlock detected"), true},
		{"plain", stderrs.New("boom"), false},
	}
	for _, c := range cases {
		if got := IsRetryable(c.err); got != c.want {
			t.Fatalf("%s: IsRetryable = %v, want %v", c.name, got, c.want)
		}
	}
}
