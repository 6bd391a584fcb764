package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/response"
)

// ClaimsKey is the gin context key holding the verified token claims.
const ClaimsKey = "claims"

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// AuthMiddleware returns a Gin middleware that verifies Bearer tokens using the
// provided verifier. Failures answer 401 with the standard envelope.
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			response.Fail(c, http.StatusUnauthorized, "Authentication required.")
			return
		}
		scheme, token, ok := strings.Cut(auth, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			response.Fail(c, http.StatusUnauthorized, "Invalid Authorization header.")
			return
		}

		idToken, err := ver.Verify(c.Request.Context(), token)
		if err != nil {
			log.Debugf("token rejected: %v", err)
			response.Fail(c, http.StatusUnauthorized, "Invalid token.")
			return
		}

		var claims map[string]interface{}
		if err := idToken.Claims(&claims); err != nil {
			response.Fail(c, http.StatusUnauthorized, "Invalid token.")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// Subject returns the "sub" claim set by AuthMiddleware, or "".
func Subject(c *gin.Context) string {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return ""
	}
	cm, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	sub, _ := cm["sub"].(string)
	return sub
}
