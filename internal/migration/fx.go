package migration

import (
	"context"

	catalogdomain "github.com/smallbiznis/shiptable/internal/catalog/domain"
	"github.com/smallbiznis/shiptable/internal/clock"
	"github.com/smallbiznis/shiptable/internal/config"
	"github.com/smallbiznis/shiptable/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, repo catalogdomain.Repository, clk clock.Clock, log *zap.Logger) error {
		if cfg.DBAutoMigrate {
			if err := Migrate(conn); err != nil {
				return err
			}
		}

		if !cfg.SeedDemoCatalog {
			return nil
		}
		seeded, err := seed.EnsureDemoCatalog(context.Background(), repo, clk.Now())
		if err != nil {
			return err
		}
		if seeded {
			log.Named("migrations").Info("demo shipping catalog seeded")
		}
		return nil
	}),
)
