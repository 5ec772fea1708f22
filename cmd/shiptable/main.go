package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shiptable/internal/catalog"
	"github.com/smallbiznis/shiptable/internal/clock"
	"github.com/smallbiznis/shiptable/internal/config"
	"github.com/smallbiznis/shiptable/internal/migration"
	"github.com/smallbiznis/shiptable/internal/observability"
	"github.com/smallbiznis/shiptable/internal/ratelimit"
	"github.com/smallbiznis/shiptable/internal/server"
	"github.com/smallbiznis/shiptable/internal/shipping"
	"github.com/smallbiznis/shiptable/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),

		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Shipping
		catalog.Module,
		shipping.Module,
		migration.Module,

		ratelimit.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
