package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"devconnect/internal/pkg/jwtutil"
	"devconnect/internal/transport/http/response"
)

const (
	// TokenHeader carries the bearer token on every protected route.
	TokenHeader = "x-auth-token"

	ContextUserIDKey = "user_id"
)

// AuthToken verifies the x-auth-token header and injects the authenticated
// user id into the request context. Requests without a valid token never
// reach the handler.
func AuthToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(TokenHeader))
		if token == "" {
			response.Message(c, http.StatusUnauthorized, "You are not authorized - no token")
			c.Abort()
			return
		}

		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Message(c, http.StatusUnauthorized, "token not valid")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the authenticated user id set by AuthToken.
func UserID(c *gin.Context) string {
	id, _ := c.Get(ContextUserIDKey)
	s, _ := id.(string)
	return s
}
