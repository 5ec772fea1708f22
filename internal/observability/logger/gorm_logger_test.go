package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLoggerTrace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), GormLoggerConfig{Level: gormlogger.Warn, SlowThreshold: time.Millisecond})
	ctx := context.Background()
	query := func() (string, int64) {
		return `SELECT * FROM "shipping_table_items" WHERE start_weight <= ?`, 3
	}

	l.Trace(ctx, time.Now(), query, nil)
	assert.Zero(t, logs.Len())

	l.Trace(ctx, time.Now(), query, gormlogger.ErrRecordNotFound)
	assert.Zero(t, logs.Len())

	l.Trace(ctx, time.Now().Add(-time.Second), query, nil)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "shipping_table_items", entry.ContextMap()["table"])
	assert.Equal(t, "SELECT", entry.ContextMap()["operation"])

	l.Trace(ctx, time.Now(), query, errors.New("boom"))
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
}

func TestGormLoggerSilent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), DefaultGormLoggerConfig()).LogMode(gormlogger.Silent)

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("boom"))
	l.Error(context.Background(), "boom")
	assert.Zero(t, logs.Len())
}

func TestTableFromSQL(t *testing.T) {
	assert.Equal(t, "shipping_regions", tableFromSQL(`INSERT INTO "shipping_regions" ("id") VALUES (?)`))
	assert.Equal(t, "shipping_tables", tableFromSQL("UPDATE shipping_tables SET enabled = false"))
	assert.Equal(t, "", tableFromSQL("SELECT 1"))
}
