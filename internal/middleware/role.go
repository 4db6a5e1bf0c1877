package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole restricts a route to the declared set of roles. It must be
// composed after Authenticate; a missing identity is treated as forbidden.
// Role sets are declared at wiring time so authorization stays auditable
// per endpoint.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, exists := c.Get(CtxRole)
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"message": "forbidden"})
			c.Abort()
			return
		}
		if _, ok := allowed[role.(string)]; !ok {
			c.JSON(http.StatusForbidden, gin.H{"message": "forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}
