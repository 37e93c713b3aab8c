package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID is the header carrying the request correlation id.
const HeaderRequestID = "X-Request-Id"

const requestIDContextKey = "request_id"

// RequestID tags every request with a correlation id: an inbound
// X-Request-Id is kept, otherwise a fresh UUID is generated. The id is
// stored on the gin context and echoed on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDContextKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestIDFrom returns the request's correlation id, or "" when the
// RequestID middleware did not run.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDContextKey)
}
