package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Positive(t, ups)
	assert.Equal(t, ups, downs)

	source, err := Source()
	require.NoError(t, err)
	first, err := source.First()
	require.NoError(t, err)
	assert.EqualValues(t, 1, first)
}

func TestMigrateSqlite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_sqlite?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(conn))
	require.NoError(t, Migrate(conn))

	for _, table := range []string{
		"shipping_regions",
		"shipping_carriers",
		"shipping_carrier_shops",
		"shipping_tables",
		"shipping_table_shops",
		"shipping_table_excluded_regions",
		"shipping_table_items",
	} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
}
