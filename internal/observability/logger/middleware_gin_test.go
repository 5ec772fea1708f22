package logger

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGinMiddlewareLogsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{
		ErrorClassifier: func(error) (string, string) { return "validation_error", "invalid_request" },
	}))
	r.POST("/v1/quotes", func(c *gin.Context) {
		c.Set("behavior", "cheapest")
		_ = c.Error(errors.New("bad body"))
		c.Status(http.StatusBadRequest)
	})
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/v1/behaviors", func(c *gin.Context) {
		c.Set(KeyQuoteAvailable, true)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/quotes", nil)
	req.Header.Set("X-Request-Id", "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/behaviors", nil))

	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 3)

	quote := entries[0]
	assert.Equal(t, zapcore.DebugLevel, quote.Level)
	fields := quote.ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "cheapest", fields["behavior"])
	assert.Equal(t, "validation_error", fields["error_type"])
	assert.EqualValues(t, http.StatusBadRequest, fields["status"])

	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.NotEmpty(t, entries[1].ContextMap()["request_id"])

	assert.Equal(t, zapcore.InfoLevel, entries[2].Level)
	assert.Equal(t, true, entries[2].ContextMap()["available"])
}

func TestRequestLevel(t *testing.T) {
	assert.Equal(t, zapcore.ErrorLevel, requestLevel("/health", http.StatusServiceUnavailable, ""))
	assert.Equal(t, zapcore.DebugLevel, requestLevel("/metrics", http.StatusOK, ""))
	assert.Equal(t, zapcore.DebugLevel, requestLevel("/v1/quotes", http.StatusBadRequest, "validation_error"))
	assert.Equal(t, zapcore.InfoLevel, requestLevel("/v1/quotes", http.StatusNotFound, "not_found"))
	assert.Equal(t, zapcore.InfoLevel, requestLevel("/v1/quotes", http.StatusOK, ""))
}
