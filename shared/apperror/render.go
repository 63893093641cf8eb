package apperror

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Render writes err as application/problem+json. Unexpected errors are
// logged with the request id and surfaced generically so internals never
// leak to the caller.
func Render(c *gin.Context, err error) {
	requestID := c.GetString("request_id")

	var appErr *Error
	if !errors.As(err, &appErr) {
		log.Printf("internal error [request_id=%s]: %v", requestID, err)
		appErr = &Error{
			Status: http.StatusInternalServerError,
			Title:  "Internal Server Error",
			Detail: "An unexpected error occurred",
		}
	}

	c.Header("Content-Type", "application/problem+json")
	c.AbortWithStatusJSON(appErr.Status, gin.H{
		"type":       "about:blank",
		"title":      appErr.Title,
		"status":     appErr.Status,
		"detail":     appErr.Detail,
		"request_id": requestID,
	})
}
