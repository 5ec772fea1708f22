package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang/mock/gomock"
	redis "github.com/redis/go-redis/v9"
	catalogmock "github.com/smallbiznis/shiptable/internal/catalog/mock"
	regiondomain "github.com/smallbiznis/shiptable/internal/region/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func excluded() []regiondomain.Region {
	r := regiondomain.NewPostalCodeRange("excluded", 99, "BR", 89060100, 89060100)
	r.ID = 7
	return []regiondomain.Region{r}
}

func TestWrap_MemoryStoreServesRepeatLookups(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := catalogmock.NewMockCatalog(ctrl)
	inner.EXPECT().ExcludedRegions(gomock.Any(), snowflake.ID(1)).Return(excluded(), nil).Times(1)

	catalog := Wrap(inner, NewMemoryStore(time.Minute), zap.NewNop())

	for i := 0; i < 3; i++ {
		got, err := catalog.ExcludedRegions(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, snowflake.ID(7), got[0].ID)
	}
}

func TestWrap_InnerErrorIsNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := catalogmock.NewMockCatalog(ctrl)
	boom := errors.New("db down")
	gomock.InOrder(
		inner.EXPECT().ExcludedRegions(gomock.Any(), snowflake.ID(1)).Return(nil, boom),
		inner.EXPECT().ExcludedRegions(gomock.Any(), snowflake.ID(1)).Return(nil, nil),
	)

	catalog := Wrap(inner, NewMemoryStore(time.Minute), nil)

	_, err := catalog.ExcludedRegions(context.Background(), 1)
	assert.ErrorIs(t, err, boom)

	got, err := catalog.ExcludedRegions(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWrap_NilStoreReturnsInner(t *testing.T) {
	inner := catalogmock.NewMockCatalog(gomock.NewController(t))
	assert.Same(t, inner, Wrap(inner, nil, nil))
}

type fakeRedis struct {
	values map[string]string
	getErr error
	ttl    time.Duration
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.values[key] = string(value.([]byte))
	f.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	client := &fakeRedis{values: map[string]string{}}
	store := newRedisStore(client, 0)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, 1, excluded()))
	assert.Equal(t, DefaultTTL, client.ttl)
	assert.Contains(t, client.values, "shiptable:excluded_regions:1")

	got, ok, err := store.Get(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, snowflake.ID(7), got[0].ID)
	assert.True(t, got[0].IsCompatible(regiondomain.Address{Country: "BR", PostalCode: "89060-100"}))

	require.NoError(t, store.Set(ctx, 2, nil))
	got, ok, err = store.Get(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestWrap_RedisFailureFallsBackToInner(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := catalogmock.NewMockCatalog(ctrl)
	inner.EXPECT().ExcludedRegions(gomock.Any(), snowflake.ID(1)).Return(excluded(), nil)

	client := &fakeRedis{values: map[string]string{}, getErr: errors.New("connection refused")}
	catalog := Wrap(inner, newRedisStore(client, time.Second), zap.NewNop())

	got, err := catalog.ExcludedRegions(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
