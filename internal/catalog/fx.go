package catalog

import (
	"github.com/smallbiznis/shiptable/internal/catalog/cache"
	catalogdomain "github.com/smallbiznis/shiptable/internal/catalog/domain"
	"github.com/smallbiznis/shiptable/internal/catalog/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("catalog.repository",
	fx.Provide(repository.Provide),
	fx.Provide(cache.NewStore),
	fx.Provide(provideCatalog),
)

func provideCatalog(repo catalogdomain.Repository, store cache.Store, log *zap.Logger) catalogdomain.Catalog {
	return cache.Wrap(repo, store, log)
}
