package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/smallbiznis/shiptable/internal/config"
	"github.com/smallbiznis/shiptable/internal/observability/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestDialect(t *testing.T) {
	d, err := Dialect(config.Config{DBType: "postgres"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = Dialect(config.Config{DBType: "sqlite", DBPath: "catalog.db"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = Dialect(config.Config{DBType: " PostgreSQL "})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = Dialect(config.Config{DBType: "oracle"})
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg := config.Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "shiptable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=shiptable sslmode=disable TimeZone=UTC", postgresDSN(cfg))

	cfg.DBPort = "3306"
	assert.Equal(t, "u:p@tcp(db:3306)/shiptable?charset=utf8mb4&parseTime=True&loc=UTC", mysqlDSN(cfg))
}

func TestOpenAppliesPool(t *testing.T) {
	conn, err := Open(sqlite.Open("file:db_open?mode=memory&cache=shared"), "test", PoolConfig{MaxOpenConn: 1}, logger.NewGormLogger(zap.NewNop(), logger.DefaultGormLoggerConfig()))
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, conn.Exec("SELECT 1").Error)
}

func TestIsDuplicateKeyErr(t *testing.T) {
	assert.False(t, IsDuplicateKeyErr(nil))
	assert.True(t, IsDuplicateKeyErr(fmt.Errorf("create: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsDuplicateKeyErr(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsDuplicateKeyErr(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsDuplicateKeyErr(errors.New("UNIQUE constraint failed: shipping_tables.identifier")))
	assert.True(t, IsDuplicateKeyErr(errors.New("Error 1062: Duplicate entry")))
	assert.False(t, IsDuplicateKeyErr(errors.New("boom")))
}
