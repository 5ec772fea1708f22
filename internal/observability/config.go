package observability

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/shiptable/internal/config"
	gormlogger "gorm.io/gorm/logger"
)

// Config is the observability view of the process: who we are, how we log,
// where spans and metrics go and how loudly catalog queries are logged.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	Log   LogConfig
	Otel  OtelConfig
	Query QueryLogConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type OtelConfig struct {
	Enabled       bool
	Endpoint      string
	Protocol      string
	SamplingRatio float64
}

// QueryLogConfig controls the gorm logger attached to the catalog database.
type QueryLogConfig struct {
	Level         string
	SlowThreshold time.Duration
}

func LoadConfig(cfg config.Config) Config {
	env := envLookup(os.Getenv)

	name := strings.TrimSpace(cfg.AppName)
	if name == "" {
		name = "shiptable"
	}

	protocol := env.lower("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
	protocol = env.lower("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", protocol)

	return Config{
		ServiceName: name,
		Environment: env.str("DEPLOYMENT_ENV", strings.TrimSpace(cfg.Environment)),
		Version:     env.str("SERVICE_VERSION", strings.TrimSpace(cfg.AppVersion)),
		Log: LogConfig{
			Level:  env.lower("LOG_LEVEL", "info"),
			Format: env.lower("LOG_FORMAT", "json"),
		},
		Otel: OtelConfig{
			Enabled:       env.boolean("OTEL_ENABLED", true),
			Endpoint:      env.str("OTEL_EXPORTER_OTLP_ENDPOINT", strings.TrimSpace(cfg.OTLPEndpoint)),
			Protocol:      protocol,
			SamplingRatio: env.float("OTEL_SAMPLING_RATIO", 0.1),
		},
		Query: QueryLogConfig{
			Level:         env.lower("DB_LOG_LEVEL", "warn"),
			SlowThreshold: time.Duration(env.float("DB_SLOW_QUERY_MS", 100)) * time.Millisecond,
		},
	}
}

// Debug is true when the log level asks for it or the environment is a
// developer one.
func (c Config) Debug() bool {
	if c.Log.Level == "debug" {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

// GormLevel maps the query log level onto gorm's levels. Unknown values
// fall back to warn.
func (c QueryLogConfig) GormLevel() gormlogger.LogLevel {
	switch c.Level {
	case "silent", "off":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

type envLookup func(string) string

func (e envLookup) str(key, def string) string {
	if v := strings.TrimSpace(e(key)); v != "" {
		return v
	}
	return def
}

func (e envLookup) lower(key, def string) string {
	return strings.ToLower(e.str(key, def))
}

func (e envLookup) boolean(key string, def bool) bool {
	switch e.lower(key, "") {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func (e envLookup) float(key string, def float64) float64 {
	v, err := strconv.ParseFloat(e.str(key, ""), 64)
	if err != nil {
		return def
	}
	return v
}
