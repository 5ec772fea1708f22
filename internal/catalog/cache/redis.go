package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	redis "github.com/redis/go-redis/v9"
	regiondomain "github.com/smallbiznis/shiptable/internal/region/domain"
)

const redisKeyPrefix = "shiptable:excluded_regions:"

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type redisStore struct {
	client redisClient
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	if client == nil {
		return nil
	}
	return newRedisStore(client, ttl)
}

func newRedisStore(client redisClient, ttl time.Duration) *redisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisStore{client: client, ttl: ttl}
}

func redisKey(tableID snowflake.ID) string {
	return redisKeyPrefix + tableID.String()
}

func (s *redisStore) Get(ctx context.Context, tableID snowflake.ID) ([]regiondomain.Region, bool, error) {
	raw, err := s.client.Get(ctx, redisKey(tableID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var regions []regiondomain.Region
	if err := json.Unmarshal(raw, &regions); err != nil {
		return nil, false, err
	}
	return regions, true, nil
}

func (s *redisStore) Set(ctx context.Context, tableID snowflake.ID, regions []regiondomain.Region) error {
	if regions == nil {
		regions = []regiondomain.Region{}
	}
	raw, err := json.Marshal(regions)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKey(tableID), raw, s.ttl).Err()
}
