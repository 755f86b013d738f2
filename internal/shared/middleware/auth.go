package middleware

import (
	"net/http"
	"strings"

	"storefront-backend/internal/shared/response"
	"storefront-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// AdminGuard protects back-office routes. Token issuance lives outside
// this service; the guard only verifies signature and the admin role.
func AdminGuard(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := manager.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		if claims.Role != "admin" {
			response.ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", "admin role required")
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Next()
	}
}
