package cache

import (
	"context"
	"errors"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/shiptable/internal/config"
	"go.uber.org/fx"
)

// NewStore builds the excluded-region store selected by CATALOG_CACHE. It
// returns a nil store unless memory or redis caching is asked for.
func NewStore(lc fx.Lifecycle, cfg config.Config) (Store, error) {
	ttl := cfg.CatalogCacheTTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	switch cfg.CatalogCache {
	case config.CatalogCacheMemory:
		return NewMemoryStore(ttl), nil
	case config.CatalogCacheRedis:
		addr := strings.TrimSpace(cfg.RedisAddr)
		if addr == "" {
			return nil, errors.New("catalog cache redis addr is required")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: strings.TrimSpace(cfg.RedisPassword),
			DB:       cfg.RedisDB,
		})
		if lc != nil {
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error { return client.Close() },
			})
		}
		return NewRedisStore(client, ttl), nil
	default:
		return nil, nil
	}
}
