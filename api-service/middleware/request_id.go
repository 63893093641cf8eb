package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID tags every request with a correlation id (honoring an inbound
// X-Request-ID), echoes it back and logs the request outcome.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		started := time.Now()
		c.Next()

		log.Printf("request request_id=%s method=%s path=%s status=%d elapsed_ms=%.2f",
			requestID,
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			float64(time.Since(started).Microseconds())/1000.0,
		)
	}
}
