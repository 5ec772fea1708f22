// Package cache decorates a catalog with a cache of per-table excluded
// regions, the lookup the resolver repeats for every candidate table.
package cache

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/shiptable/internal/catalog/domain"
	regiondomain "github.com/smallbiznis/shiptable/internal/region/domain"
	"go.uber.org/zap"
)

const DefaultTTL = 30 * time.Second

// Store keeps excluded-region lists by table id.
type Store interface {
	Get(ctx context.Context, tableID snowflake.ID) ([]regiondomain.Region, bool, error)
	Set(ctx context.Context, tableID snowflake.ID, regions []regiondomain.Region) error
}

type cachedCatalog struct {
	catalogdomain.Catalog
	store Store
	log   *zap.Logger
}

// Wrap returns a catalog whose ExcludedRegions reads through store. Store
// failures are logged and fall back to the wrapped catalog.
func Wrap(inner catalogdomain.Catalog, store Store, log *zap.Logger) catalogdomain.Catalog {
	if store == nil {
		return inner
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &cachedCatalog{Catalog: inner, store: store, log: log.Named("catalog.cache")}
}

func (c *cachedCatalog) ExcludedRegions(ctx context.Context, tableID snowflake.ID) ([]regiondomain.Region, error) {
	regions, ok, err := c.store.Get(ctx, tableID)
	if err != nil {
		c.log.Warn("excluded region cache read failed", zap.String("table_id", tableID.String()), zap.Error(err))
	}
	if ok {
		return regions, nil
	}

	regions, err = c.Catalog.ExcludedRegions(ctx, tableID)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, tableID, regions); err != nil {
		c.log.Warn("excluded region cache write failed", zap.String("table_id", tableID.String()), zap.Error(err))
	}
	return regions, nil
}
