package middleware

import (
	"net/http"
	"strings"

	"instacat/internal/auth"

	"github.com/gin-gonic/gin"
)

// usernameKey is where RequireAuth stores the authenticated principal in the
// request context.
const usernameKey = "username"

// RequireAuth rejects requests without a valid bearer token and records the
// token's username for handlers to pick up via UsernameFrom.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		username, err := auth.ParseToken(secret, strings.TrimSpace(header[7:]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(usernameKey, username)
		c.Next()
	}
}

// UsernameFrom returns the authenticated username recorded by RequireAuth.
func UsernameFrom(c *gin.Context) (string, bool) {
	username := c.GetString(usernameKey)
	return username, username != ""
}
