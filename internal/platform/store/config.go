package store

import (
	"time"

	"jakebot/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	// AppName tags connections on both servers
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQuery   time.Duration
	PingTimeout time.Duration
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled     bool
	URL         string
	DialTimeout time.Duration
}

// FromConfig enables each backend whose DBURL is set
// SERVICE_PGSQL_DBURL, SERVICE_PGSQL_MAX_CONNS (4), SERVICE_PGSQL_SLOW_MS (500, plain integers are ms),
// SERVICE_PGSQL_LOG_SQL (false), SERVICE_PGSQL_PING_TIMEOUT (3s)
// SERVICE_CLICKHOUSE_DBURL, SERVICE_CLICKHOUSE_DIAL_TIMEOUT (5s)
func FromConfig(cfg config.Conf, app string) Config {
	pg := cfg.Prefix("SERVICE_PGSQL_")
	ch := cfg.Prefix("SERVICE_CLICKHOUSE_")
	return Config{
		AppName: app,
		PG: PGConfig{
			Enabled:     pg.Has("DBURL"),
			URL:         pg.MayString("DBURL", ""),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQuery:   pg.MayDuration("SLOW_MS", 500*time.Millisecond),
			LogSQL:      pg.MayBool("LOG_SQL", false),
			PingTimeout: pg.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
		CH: CHConfig{
			Enabled:     ch.Has("DBURL"),
			URL:         ch.MayString("DBURL", ""),
			DialTimeout: ch.MayDuration("DIAL_TIMEOUT", 5*time.Second),
		},
	}
}
