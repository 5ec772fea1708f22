package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DATABASE_TYPE", "SQLite")
	t.Setenv("CATALOG_CACHE", "Redis")
	t.Setenv("CATALOG_CACHE_TTL", "1m")
	t.Setenv("SEED_DEMO_CATALOG", "yes")
	t.Setenv("QUOTE_TIMEOUT", "not-a-duration")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, CatalogCacheRedis, cfg.CatalogCache)
	assert.Equal(t, time.Minute, cfg.CatalogCacheTTL)
	assert.True(t, cfg.SeedDemoCatalog)
	assert.Equal(t, 5*time.Second, cfg.QuoteTimeout)
}

func TestNormalizeCatalogCache(t *testing.T) {
	assert.Equal(t, CatalogCacheNone, normalizeCatalogCache(""))
	assert.Equal(t, CatalogCacheNone, normalizeCatalogCache(" NONE "))
	assert.Equal(t, CatalogCacheMemory, normalizeCatalogCache(" Memory "))
	assert.Equal(t, CatalogCacheNone, normalizeCatalogCache("memcached"))
}

func TestLoadLeavesCatalogCacheOff(t *testing.T) {
	t.Setenv("CATALOG_CACHE", "")
	assert.Equal(t, CatalogCacheNone, Load().CatalogCache)
}
