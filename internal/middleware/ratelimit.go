package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// LoginLimiter throttles credential-exchange attempts per client IP using a
// Redis fixed-window counter, so the limit holds across API instances.
type LoginLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
	logger *zap.Logger
}

func NewLoginLimiter(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) *LoginLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LoginLimiter{redis: client, limit: limit, window: window, logger: logger}
}

// Handler rejects clients over the limit with 429. Redis failures fail open:
// losing throttling is preferable to losing logins.
func (l *LoginLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("login_attempts:%s", c.ClientIP())
		ctx := c.Request.Context()

		pipe := l.redis.Pipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, l.window)
		if _, err := pipe.Exec(ctx); err != nil {
			l.logger.Warn("Login rate limiter unavailable, failing open", zap.Error(err))
			c.Next()
			return
		}

		if incr.Val() > int64(l.limit) {
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "too many login attempts, try again later"})
			c.Abort()
			return
		}

		c.Next()
	}
}
