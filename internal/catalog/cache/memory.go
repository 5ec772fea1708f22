package cache

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	sharedcache "github.com/smallbiznis/shiptable/internal/cache"
	regiondomain "github.com/smallbiznis/shiptable/internal/region/domain"
)

type memoryStore struct {
	entries sharedcache.Cache[snowflake.ID, []regiondomain.Region]
	ttl     time.Duration
}

func NewMemoryStore(ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &memoryStore{
		entries: sharedcache.NewTTLCache[snowflake.ID, []regiondomain.Region](),
		ttl:     ttl,
	}
}

func (s *memoryStore) Get(_ context.Context, tableID snowflake.ID) ([]regiondomain.Region, bool, error) {
	regions, ok := s.entries.Get(tableID)
	return regions, ok, nil
}

func (s *memoryStore) Set(_ context.Context, tableID snowflake.ID, regions []regiondomain.Region) error {
	s.entries.Set(tableID, regions, s.ttl)
	return nil
}
