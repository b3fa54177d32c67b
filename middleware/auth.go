package middleware

import (
	"errors"
	"net/http"
	"strings"

	"sawaal/services"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid admin bearer token.
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		if err := authService.ValidateToken(tokenString); err != nil {
			if errors.Is(err, services.ErrAdminDisabled) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access disabled"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("admin", true)
		c.Next()
	}
}
