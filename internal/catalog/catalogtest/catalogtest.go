// Package catalogtest opens throwaway sqlite catalogs for tests.
package catalogtest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	catalogdomain "github.com/smallbiznis/shiptable/internal/catalog/domain"
	"github.com/smallbiznis/shiptable/internal/catalog/repository"
	regiondomain "github.com/smallbiznis/shiptable/internal/region/domain"
	"github.com/smallbiznis/shiptable/internal/seed"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Now is the reference instant the demo catalog is seeded around.
var Now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

// OpenDB returns an in-memory database private to the calling test.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	models := append([]any{&regiondomain.Region{}}, catalogdomain.Models()...)
	require.NoError(t, db.AutoMigrate(models...))
	return db
}

// NewRepository returns a catalog repository over db.
func NewRepository(t *testing.T, db *gorm.DB) catalogdomain.Repository {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return repository.New(db, node)
}

// Seed writes the demo catalog around Now.
func Seed(t *testing.T) (catalogdomain.Repository, *seed.Fixture) {
	t.Helper()
	repo := NewRepository(t, OpenDB(t))
	fixture, err := seed.DemoCatalog(context.Background(), repo, Now)
	require.NoError(t, err)
	return repo, fixture
}
