package middleware

import (
	"go-careops/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID honours an incoming X-Request-ID or mints one, then propagates
// it on the request context and echoes it back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}

		c.Set("request_id", rid)
		c.Request = c.Request.WithContext(contextutil.WithRequestID(c.Request.Context(), rid))

		c.Header("X-Request-ID", rid)
		c.Next()
	}
}
