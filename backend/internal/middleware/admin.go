package middleware

import (
	"net/http"

	"github.com/Nienta-PK/taskmanager/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type RoleChecker interface {
	HasRole(id services.Identity, role string) bool
}

// RequireRole must run after JWTAuth.
func RequireRole(authz RoleChecker, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			unauthorized(c, "not authenticated")
			return
		}
		if !authz.HasRole(identity, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

func AdminOnly(authz RoleChecker) gin.HandlerFunc {
	return RequireRole(authz, services.RoleAdmin)
}
