package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jan-server/services/chat-router/internal/utils/platformerrors"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
)

// RequestID propagates the caller's X-Request-ID or mints one, and makes it
// visible to gin handlers, the response headers and the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(platformerrors.WithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}

// GetRequestID returns the request id set by RequestID, if any.
func GetRequestID(c *gin.Context) string {
	if id, ok := c.Get(RequestIDKey); ok {
		if requestID, ok := id.(string); ok {
			return requestID
		}
	}
	return ""
}
