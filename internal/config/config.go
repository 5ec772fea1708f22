package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBPath            string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
	DBAutoMigrate     bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CatalogCache    string
	CatalogCacheTTL time.Duration

	QuoteRateLimitEnabled bool
	QuoteRateLimitRate    float64
	QuoteRateLimitBurst   int

	SnowflakeNode   int64
	SeedDemoCatalog bool
	QuoteTimeout    time.Duration
	BehaviorsPath   string
}

// Catalog cache modes. The cache is off unless asked for: with it on, a
// table's excluded regions may be up to CATALOG_CACHE_TTL old while its
// items are read fresh, and catalog writes do not invalidate it.
const (
	CatalogCacheNone   = "none"
	CatalogCacheMemory = "memory"
	CatalogCacheRedis  = "redis"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:               getenv("APP_SERVICE", "shiptable"),
		AppVersion:            getenv("APP_VERSION", "0.1.0"),
		Environment:           getenv("ENVIRONMENT", "development"),
		HTTPAddr:              getenv("HTTP_ADDR", ":8080"),
		OTLPEndpoint:          getenv("OTLP_ENDPOINT", "localhost:4317"),
		DBType:                strings.ToLower(getenv("DATABASE_TYPE", "postgres")),
		DBHost:                getenv("DATABASE_HOST", "localhost"),
		DBPort:                getenv("DATABASE_PORT", "5432"),
		DBName:                getenv("DATABASE_NAME", "shiptable"),
		DBUser:                getenv("DATABASE_USER", "postgres"),
		DBPassword:            getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:             getenv("DATABASE_SSLMODE", "disable"),
		DBPath:                getenv("DATABASE_PATH", "shiptable.db"),
		DBMaxIdleConn:         int(getenvInt64("DATABASE_MAX_IDLE_CONN", 5)),
		DBMaxOpenConn:         int(getenvInt64("DATABASE_MAX_OPEN_CONN", 20)),
		DBConnMaxLifetime:     int(getenvInt64("DATABASE_CONN_MAX_LIFETIME", 300)),
		DBConnMaxIdleTime:     int(getenvInt64("DATABASE_CONN_MAX_IDLE_TIME", 60)),
		DBAutoMigrate:         getenvBool("DATABASE_AUTO_MIGRATE", true),
		RedisAddr:             strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword:         getenv("REDIS_PASSWORD", ""),
		RedisDB:               int(getenvInt64("REDIS_DB", 0)),
		CatalogCache:          normalizeCatalogCache(getenv("CATALOG_CACHE", CatalogCacheNone)),
		CatalogCacheTTL:       getenvDuration("CATALOG_CACHE_TTL", 30*time.Second),
		QuoteRateLimitEnabled: getenvBool("QUOTE_RATE_LIMIT_ENABLED", false),
		QuoteRateLimitRate:    getenvFloat("QUOTE_RATE_LIMIT_RATE", 20),
		QuoteRateLimitBurst:   int(getenvInt64("QUOTE_RATE_LIMIT_BURST", 40)),
		SnowflakeNode:         getenvInt64("SNOWFLAKE_NODE", 1),
		SeedDemoCatalog:       getenvBool("SEED_DEMO_CATALOG", false),
		QuoteTimeout:          getenvDuration("QUOTE_TIMEOUT", 5*time.Second),
		BehaviorsPath:         strings.TrimSpace(getenv("BEHAVIORS_PATH", "")),
	}
}

func normalizeCatalogCache(raw string) string {
	switch value := strings.ToLower(strings.TrimSpace(raw)); value {
	case CatalogCacheRedis, CatalogCacheMemory:
		return value
	default:
		return CatalogCacheNone
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
