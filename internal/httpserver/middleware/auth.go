package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scribehq/scribe/internal/apperr"
	"github.com/scribehq/scribe/internal/auth/authctx"
)

// identityContextKey stores the resolved identity in the Gin context.
const identityContextKey = "auth.identity"

// AuthConfig configures the authentication middleware.
type AuthConfig struct {
	// Verify validates a token string and returns the user identifier.
	Verify func(token string) (string, error)

	// Header is the header carrying the token (default: Authorization).
	// The raw token string is expected; an optional "Bearer " prefix is
	// tolerated and stripped.
	Header string
}

// Auth returns the gate every protected operation passes through: it
// extracts the credential from the configured header, verifies it, and
// attaches the resolved identity to the request context. A missing
// credential rejects with UNAUTHENTICATED, a failed verification with
// INVALID_TOKEN; neither touches persistence.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	header := cfg.Header
	if header == "" {
		header = "Authorization"
	}

	return func(c *gin.Context) {
		raw := c.GetHeader(header)
		if raw == "" {
			c.AbortWithStatusJSON(
				apperr.Unauthenticated().HTTPStatus,
				apperr.Unauthenticated().ToResponse(),
			)
			return
		}
		raw = strings.TrimPrefix(raw, "Bearer ")

		userID, err := cfg.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(
				apperr.InvalidToken().HTTPStatus,
				apperr.InvalidToken().ToResponse(),
			)
			return
		}

		id := authctx.Identity{UserID: userID}
		c.Set(identityContextKey, id)
		c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), id))
		c.Next()
	}
}

// IdentityFrom returns the identity attached by Auth.
func IdentityFrom(c *gin.Context) (authctx.Identity, bool) {
	v, ok := c.Get(identityContextKey)
	if !ok {
		return authctx.Identity{}, false
	}
	id, ok := v.(authctx.Identity)
	return id, ok
}
