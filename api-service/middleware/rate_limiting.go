package middleware

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"b2bak-backend/shared/apperror"
)

// RateLimit throttles an endpoint per client IP using a redis counter with a
// rolling window. Applied to login and register to slow credential stuffing.
func RateLimit(rdb *redis.Client, name string, maxAttempts int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rl:%s:%s", name, c.ClientIP())

		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			// Redis being down should not lock everyone out.
			log.Printf("rate limiter unavailable: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(c.Request.Context(), key, window)
		}
		if count > int64(maxAttempts) {
			apperror.Render(c, apperror.TooManyRequests("Rate limit exceeded"))
			return
		}
		c.Next()
	}
}
