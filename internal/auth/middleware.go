package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vaheaslanyan/hoopscoop-backend/internal/apperr"
)

const contextKeyUserID = "user_id"

// UserIDFromContext returns the caller ID set by RequireBearer. "" if not set.
func UserIDFromContext(c *gin.Context) string {
	return c.GetString(contextKeyUserID)
}

// RequireBearer checks the Authorization header for a valid bearer token and
// stores the caller's identity in the context. Pre-flight requests pass through.
func RequireBearer(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			abortAuth(c)
			return
		}
		claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			abortAuth(c)
			return
		}
		c.Set(contextKeyUserID, claims.UserID)
		c.Next()
	}
}

func abortAuth(c *gin.Context) {
	_ = c.Error(apperr.Auth("Authentication failed"))
	c.Abort()
}
