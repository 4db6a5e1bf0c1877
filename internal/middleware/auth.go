package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wanderlist/internal/token"
)

// Context keys set by Authenticate for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// Authenticate creates a Gin middleware that validates the Bearer token and
// attaches the authenticated identity to the request context. Invalid and
// expired tokens get the same response body so callers cannot probe which
// check failed.
func Authenticate(tokens *token.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "authorization required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "authorization required"})
			c.Abort()
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			c.Abort()
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			logger.Warn("Token with non-numeric subject", zap.String("sub", claims.Subject))
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxRole, claims.Role)

		c.Next()
	}
}
