package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vvf-listone/pkg/response"
)

// Limiter sliding-window counter, implemented by *redis.Client
type Limiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit per-client limit on an expensive route.
// A nil limiter or limit <= 0 disables it; limiter errors let the request through.
// Rejections are plain text, matching the document endpoint they guard.
func RateLimit(limiter Limiter, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := limiter.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("rate limiter unavailable, request let through", zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			response.Text(c, http.StatusTooManyRequests, "Too many requests, try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
