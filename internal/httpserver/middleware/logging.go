package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scribehq/scribe/internal/logger"
)

const slowRequestThreshold = 500 * time.Millisecond

// RequestLogger logs one line per completed request: method, path, status,
// duration, client, and the correlation id. Server errors log at error
// level, client errors at warn, everything else at debug. The health probe
// is not logged.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path += "?" + q
		}

		fields := map[string]interface{}{
			logger.FieldRequestID: RequestIDFrom(c),
			"method":              c.Request.Method,
			"path":                path,
			"status":              c.Writer.Status(),
			"duration_ms":         elapsed.Milliseconds(),
			"client":              c.ClientIP(),
		}
		if elapsed > slowRequestThreshold {
			fields["slow"] = true
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("Request completed", fields)
		case status >= 400:
			log.Warn("Request completed", fields)
		default:
			log.Debug("Request completed", fields)
		}
	}
}
