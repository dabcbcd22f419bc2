package store

import (
	"time"

	"storefront/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG  PGConfig
	CH  CHConfig
	RDS RedisConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot knobs
	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled    bool
	URL        string
	ClientName string
	ClientTag  string
}

// RedisConfig configures redis connectivity
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// FromConfig reads SERVICE_PGSQL_*, SERVICE_CLICKHOUSE_* and SERVICE_REDIS_* from root
// postgres is on by default; clickhouse and redis are opt in
func FromConfig(root config.Conf, app, role string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")
	rds := root.Prefix("SERVICE_REDIS_")

	c := Config{
		AppName: app,
		PG: PGConfig{
			Enabled:        pg.MayBool("ENABLED", true),
			MaxConns:       int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs:    pg.MayInt("SLOW_MS", 500),
			LogSQL:         pg.MayBool("LOG_SQL", false),
			ConnectRetries: pg.MayInt("CONNECT_RETRIES", 20),
			PingTimeout:    pg.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
		CH: CHConfig{
			Enabled:    ch.MayBool("ENABLED", false),
			ClientName: app,
			ClientTag:  role,
		},
		RDS: RedisConfig{
			Enabled:  rds.MayBool("ENABLED", false),
			Addr:     rds.MayString("ADDR", "localhost:6379"),
			Password: rds.MayString("PASSWORD", ""),
			DB:       rds.MayInt("DB", 0),
		},
	}
	if c.PG.Enabled {
		c.PG.URL = pg.MustString("DBURL")
	}
	if c.CH.Enabled {
		c.CH.URL = ch.MustString("DBURL")
	}
	return c
}
