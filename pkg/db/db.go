package db

import (
	"context"

	"github.com/smallbiznis/shiptable/internal/config"
	"github.com/smallbiznis/shiptable/internal/observability/logger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	gormprometheus "gorm.io/plugin/prometheus"
)

var Module = fx.Module("db",
	fx.Provide(New),
)

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Log       *zap.Logger
	QueryLog  *logger.GormLoggerConfig `optional:"true"`
}

// New opens the catalog database described by the config and closes it with
// the application.
func New(p Params) (*gorm.DB, error) {
	dialector, err := Dialect(p.Config)
	if err != nil {
		return nil, err
	}

	queryLog := logger.DefaultGormLoggerConfig()
	if p.QueryLog != nil {
		queryLog = *p.QueryLog
	}

	conn, err := Open(dialector, p.Config.DBName, PoolConfigFrom(p.Config), logger.NewGormLogger(p.Log, queryLog))
	if err != nil {
		return nil, err
	}

	if lc := p.Lifecycle; lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				sqlDB, err := conn.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		})
	}
	return conn, nil
}

// Open connects through dialector with zap query logging, tracing and
// connection pool metrics attached.
func Open(dialector gorm.Dialector, name string, pool PoolConfig, queryLog gormlogger.Interface) (*gorm.DB, error) {
	if queryLog == nil {
		queryLog = gormlogger.Discard
	}
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 queryLog,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, err
	}

	if err := conn.Use(otelgorm.NewPlugin(otelgorm.WithDBName(name))); err != nil {
		return nil, err
	}
	if err := conn.Use(gormprometheus.New(gormprometheus.Config{
		DBName:          name,
		RefreshInterval: 15,
	})); err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if pool.MaxIdleConn > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConn)
	}
	if pool.MaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConn)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	if pool.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	}
	return conn, nil
}
