package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/scribehq/scribe/internal/apperr"
	"github.com/scribehq/scribe/internal/logger"
)

// Recovery converts a handler panic into the standard INTERNAL error
// response. The panic value and stack are logged with the request's
// correlation id; the client sees only the generic envelope.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			log.Error("Panic recovered", map[string]interface{}{
				logger.FieldRequestID: RequestIDFrom(c),
				"method":              c.Request.Method,
				"path":                c.Request.URL.Path,
				"panic":               fmt.Sprintf("%v", r),
				"stack":               string(debug.Stack()),
			})
			appErr := apperr.Internal(fmt.Errorf("panic: %v", r))
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
		}()
		c.Next()
	}
}
