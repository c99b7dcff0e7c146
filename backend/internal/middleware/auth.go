package middleware

import (
	"net/http"
	"strings"

	"github.com/Nienta-PK/taskmanager/backend/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID  = "user_id"
	ContextIsAdmin = "is_admin"
)

type TokenParser interface {
	ParseAccessToken(token string) (services.Identity, error)
}

// JWTAuth requires a valid bearer access token and stores the caller's
// identity in the gin context.
func JWTAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			unauthorized(c, "missing bearer token")
			return
		}

		identity, err := parser.ParseAccessToken(strings.TrimSpace(token))
		if err != nil {
			unauthorized(c, "could not validate credentials")
			return
		}

		c.Set(ContextUserID, identity.UserID)
		c.Set(ContextIsAdmin, identity.IsAdmin)
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// CurrentIdentity returns the identity set by JWTAuth.
func CurrentIdentity(c *gin.Context) (services.Identity, bool) {
	userID, ok := c.Get(ContextUserID)
	if !ok {
		return services.Identity{}, false
	}
	id, ok := userID.(int64)
	if !ok {
		return services.Identity{}, false
	}
	return services.Identity{UserID: id, IsAdmin: c.GetBool(ContextIsAdmin)}, true
}
