package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resort-backend/logger"
	"resort-backend/utils"
)

type HitCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RateLimit allows limit requests per client IP and window for the routes it
// guards. Guest access codes are short, so these routes must not be
// enumerable. A counter outage lets requests through.
func RateLimit(counter HitCounter, scope string, limit int64, window time.Duration, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rate:" + scope + ":" + c.ClientIP()
		count, reset, err := counter.Hit(c.Request.Context(), key, window)
		if err != nil {
			log.Warn("⚠️  rate limiter unavailable", "scope", scope, "error", err)
			c.Next()
			return
		}
		if count > limit {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(reset.Seconds()))))
			utils.AbortError(c, http.StatusTooManyRequests, "error.tooManyRequests", "too many attempts, try again later")
			return
		}
		c.Next()
	}
}
