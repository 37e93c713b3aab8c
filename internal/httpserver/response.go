package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scribehq/scribe/internal/apperr"
	"github.com/scribehq/scribe/internal/logger"
)

// Error inspects err: if it is an *apperr.AppError the status and structured
// body are derived automatically; anything else becomes a generic 500. Causes
// of server-side failures are logged here, never echoed to the caller.
func Error(c *gin.Context, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		appErr = apperr.Internal(err)
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error("Request failed", map[string]interface{}{
			"path":  c.Request.URL.Path,
			"code":  string(appErr.Code),
			"error": appErr.Error(),
		})
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// Message sends a {message} body with the given status.
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}
