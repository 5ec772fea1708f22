package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/shiptable/internal/observability/context"
	"github.com/smallbiznis/shiptable/internal/observability/logger"
)

// RequestTimeout bounds the request context. Catalog queries observe the
// deadline and surface it as an error.
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// tagBehavior records the behavior on the gin context for request logs and
// on the request context for service logs.
func tagBehavior(c *gin.Context, behavior, shopID string) {
	c.Set(logger.KeyBehavior, behavior)
	ctx := obscontext.WithBehavior(c.Request.Context(), behavior)
	if shopID != "" {
		ctx = obscontext.WithShopID(ctx, shopID)
	}
	c.Request = c.Request.WithContext(ctx)
}
