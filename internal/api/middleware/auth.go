package middleware

import (
	"net/http"
	"strings"

	"rental-ops-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

var jwtUtil *jwt.JWTUtil

func init() {
	jwtUtil = jwt.NewJWTUtil()
}

// AuthMiddleware validates the console session token and stores the operator
// identity on the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Accept both "Bearer token" and a bare token.
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("operator", claims.Name)
		c.Set("role", claims.Role)
		c.Next()
	}
}
