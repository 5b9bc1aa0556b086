package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/inkwell/blog/backend/go-services/pkg/logger"
	"github.com/inkwell/blog/backend/go-services/pkg/response"
)

const (
	ClaimsKey = "claims"
	UserIDKey = "userID"
	TokenKey  = "accessToken"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// Blacklist reports revoked access tokens. May be nil.
type Blacklist interface {
	Contains(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware returns a Gin middleware that verifies Bearer tokens using
// the provided verifier and rejects blacklisted ones. On success the caller
// id (the "sub" claim) is available through CallerID.
func AuthMiddleware(ver Verifier, bl Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			response.Abort(c, http.StatusUnauthorized, "Unauthorized request")
			return
		}
		// Expect 'Bearer <token>'
		token, ok := strings.CutPrefix(auth, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			response.Abort(c, http.StatusUnauthorized, "Invalid Authorization header")
			return
		}

		if bl != nil {
			revoked, err := bl.Contains(c.Request.Context(), token)
			if err != nil {
				logger.Errorf("blacklist lookup failed: %v", err)
				response.Abort(c, http.StatusInternalServerError, "Internal server error")
				return
			}
			if revoked {
				response.Abort(c, http.StatusUnauthorized, "Token has been revoked")
				return
			}
		}

		verified, err := ver.Verify(c.Request.Context(), token)
		if err != nil {
			logger.Debugf("token rejected: %v", err)
			response.Abort(c, http.StatusUnauthorized, "Invalid access token")
			return
		}

		// Extract claims
		var claims map[string]interface{}
		if err := verified.Claims(&claims); err != nil {
			response.Abort(c, http.StatusUnauthorized, "Invalid access token")
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			response.Abort(c, http.StatusUnauthorized, "Invalid access token")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, sub)
		c.Set(TokenKey, token)
		c.Next()
	}
}

// CallerID returns the authenticated user id, or "" on unauthenticated routes.
func CallerID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// AccessToken returns the raw bearer token accepted by AuthMiddleware.
func AccessToken(c *gin.Context) string {
	return c.GetString(TokenKey)
}
