package store

import (
	"time"

	"scheduling/internal/platform/config"
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

	// ConnectRetries bounds the startup ping loop, 0 means 20
	ConnectRetries int
	// PingTimeout bounds each startup ping, 0 means 3s
	PingTimeout time.Duration
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
	Prefix   string
}

// FromEnv reads SERVICE_PGSQL_*, SERVICE_CLICKHOUSE_* and SERVICE_REDIS_* from root
// postgres is always enabled; clickhouse and redis turn on when their address is set
// role names the binary in client info and application_name
func FromEnv(root config.Conf, role string) Config {
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	rdsCfg := root.Prefix("SERVICE_REDIS_")

	chURL := chCfg.MayString("DBURL", "")
	rdsAddr := rdsCfg.MayString("ADDR", "")

	return Config{
		AppName: "scheduling-" + role,
		PG: PGConfig{
			Enabled:        true,
			URL:            pgCfg.MustString("DBURL"),
			MaxConns:       int32(pgCfg.MayPositiveInt("MAX_CONNS", 8)),
			SlowQueryMs:    pgCfg.MayInt("SLOW_MS", 250),
			LogSQL:         pgCfg.MayBool("LOG_SQL", false),
			ConnectRetries: pgCfg.MayInt("CONNECT_RETRIES", 20),
			PingTimeout:    pgCfg.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
		CH: CHConfig{
			Enabled:    chURL != "" && chCfg.MayBool("ENABLED", true),
			URL:        chURL,
			ClientName: "scheduling",
			ClientTag:  role,
		},
		RDS: RedisConfig{
			Enabled:  rdsAddr != "" && rdsCfg.MayBool("ENABLED", true),
			Addr:     rdsAddr,
			Password: rdsCfg.MayString("PASSWORD", ""),
			DB:       rdsCfg.MayInt("DB", 0),
			Prefix:   rdsCfg.MayString("PREFIX", "scheduling:"),
		},
	}
}
