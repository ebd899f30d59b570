package store

import (
	"context"
	"time"

	perr "jakebot/internal/platform/errors"
	"jakebot/internal/platform/logger"
	chx "jakebot/internal/platform/store/ch"
	"jakebot/internal/platform/store/pg"
)

const (
	pingAttempts = 20
	pingPause    = 150 * time.Millisecond
	pingPauseMax = 2 * time.Second
)

// openPG creates the pool and waits for the server before handing out the seam
func openPG(ctx context.Context, cfg Config, log logger.Logger) (*pgxDB, error) {
	var opts []pg.Option
	if cfg.PG.LogSQL {
		opts = append(opts, pg.WithTracer(pg.Tracer(log)))
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		App:      cfg.AppName,
		Slow:     cfg.PG.SlowQuery,
	}, opts...)
	if err != nil {
		return nil, err
	}
	// pool pings bypass the tracer
	if err := waitReady(ctx, p.Pool.Ping, cfg.PG.PingTimeout, pingAttempts); err != nil {
		p.Close()
		return nil, err
	}
	return newPGXDB(p), nil
}

// waitReady pings until one succeeds, doubling the pause between attempts
func waitReady(ctx context.Context, ping func(context.Context) error, timeout time.Duration, attempts int) error {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	pause := pingPause
	var err error
	for i := 1; ; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		err = ping(pctx)
		cancel()
		if err == nil {
			return nil
		}
		if i >= attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
		}
		pause = min(pause*2, pingPauseMax)
	}
	return perr.Wrapf(err, perr.ErrorCodeUnavailable, "postgres not ready after %d attempts", attempts)
}

func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: "journal", Tag: cfg.AppName, DialTimeout: cfg.CH.DialTimeout})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}
