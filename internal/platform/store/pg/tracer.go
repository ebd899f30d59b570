package pg

import (
	"context"
	"strings"
	"time"

	"jakebot/internal/platform/logger"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL     string
	Args    []any
	Elapsed time.Duration
	Err     error
	Slow    bool
}

// QueryTracer receives every statement run through the store
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs statements under component=pg. Slow or failed statements go out at warn.
// Argument values are left out: snapshots carry the whole seen set
func Tracer(log logger.Logger) QueryTracer {
	return zlTracer{log: log.With().Str("component", "pg").Logger()}
}

type zlTracer struct{ log logger.Logger }

func (z zlTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow || ev.Err != nil {
		evt = z.log.Warn()
	}
	if id := logger.CycleID(ctx); id != "" {
		evt = evt.Str("cycle_id", id)
	}
	evt.Float64("elapsed_ms", float64(ev.Elapsed.Microseconds())/1000).
		Bool("slow", ev.Slow).
		Str("sql", Compact(ev.SQL)).
		Int("args", len(ev.Args)).
		Err(ev.Err).
		Msg("pg query")
}

// Compact folds every whitespace run in a statement to one space
func Compact(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}
