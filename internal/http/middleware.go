package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arju-vk/Bug-Tracker/internal/auth"
)

const ctxUserID = "userID"

// requireAuth resolves the bearer token to a user id before any core logic
// runs. Failure is always 401; the authorization decisions proper live in the
// service layer.
func requireAuth(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}
		userID, err := tokens.ParseToken(strings.TrimSpace(raw))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

func actorID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
