package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inkwell-backend/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware attaches a request id to the request context and
// response headers, honoring an id supplied by the caller.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set("request_id", requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		ctx := logger.ContextWithFields(c.Request.Context(), map[string]interface{}{
			"request_id": requestID,
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
