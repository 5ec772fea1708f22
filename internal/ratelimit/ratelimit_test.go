package ratelimit

import (
	"context"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/shiptable/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseResult(t *testing.T) {
	res, err := parseResult([]interface{}{int64(1), "4.5", int64(1700000000000)}, 2, 5)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 4, res.Remaining)
	assert.Equal(t, 5, res.Limit)
	assert.Zero(t, res.RetryAfter)

	res, err = parseResult([]interface{}{int64(0), "0.5", int64(1700000000000)}, 2, 5)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 250*time.Millisecond, res.RetryAfter)

	_, err = parseResult([]interface{}{int64(1)}, 2, 5)
	assert.Error(t, err)
}

func TestBucketTTL(t *testing.T) {
	assert.Equal(t, 10*time.Second, bucketTTL(1, 5))
	assert.Equal(t, time.Second, bucketTTL(100, 1))
}

func TestTokenBucketValidatesInput(t *testing.T) {
	var nilBucket *TokenBucket
	_, err := nilBucket.Allow(context.Background(), "k", 1, 1)
	assert.ErrorIs(t, err, ErrNotConfigured)

	bucket := NewTokenBucket(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}))
	_, err = bucket.Allow(context.Background(), "", 1, 1)
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, err = bucket.Allow(context.Background(), "k", 0, 1)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestNewQuoteLimiter(t *testing.T) {
	limiter, err := NewQuoteLimiter(nil, config.Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, limiter)

	res, err := limiter.AllowShop(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	_, err = NewQuoteLimiter(nil, config.Config{QuoteRateLimitEnabled: true}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewQuoteLimiter(nil, config.Config{QuoteRateLimitEnabled: true, RedisAddr: "127.0.0.1:6379"}, zap.NewNop())
	assert.Error(t, err)
}

func TestQuoteLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	limiter := newQuoteLimiter(NewTokenBucket(client), 1, 5, zap.NewNop())
	res, err := limiter.AllowShop(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}
