package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/shiptable/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyQuoteShop = "shiptable:quotes:shop:%s"

// QuoteLimiter throttles quote requests per shop. A nil limiter allows
// everything.
type QuoteLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
	log    *zap.Logger
}

func NewQuoteLimiter(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*QuoteLimiter, error) {
	if !cfg.QuoteRateLimitEnabled {
		return nil, nil
	}

	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("quote rate limit redis addr is required")
	}
	if cfg.QuoteRateLimitRate <= 0 || cfg.QuoteRateLimitBurst <= 0 {
		return nil, errors.New("quote rate limit must be positive")
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

	return newQuoteLimiter(NewTokenBucket(client), cfg.QuoteRateLimitRate, cfg.QuoteRateLimitBurst, log), nil
}

func newQuoteLimiter(bucket *TokenBucket, rate float64, burst int, log *zap.Logger) *QuoteLimiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuoteLimiter{bucket: bucket, rate: rate, burst: burst, log: log.Named("ratelimit.quotes")}
}

// AllowShop takes a token for shopID. Redis failures are logged and let the
// request through.
func (l *QuoteLimiter) AllowShop(ctx context.Context, shopID string) (*Result, error) {
	if l == nil {
		return &Result{Allowed: true}, nil
	}
	res, err := l.bucket.Allow(ctx, fmt.Sprintf(keyQuoteShop, strings.TrimSpace(shopID)), l.rate, l.burst)
	if err != nil {
		if errors.Is(err, ErrEmptyKey) || errors.Is(err, ErrInvalidLimit) {
			return nil, err
		}
		l.log.Warn("quote rate limit check failed", zap.String("shop_id", shopID), zap.Error(err))
		return &Result{Allowed: true, Limit: l.burst}, nil
	}
	return res, nil
}
