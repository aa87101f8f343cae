package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alphaowl/premium_go_server/internal/pkg/jwt"
	"github.com/alphaowl/premium_go_server/internal/pkg/response"
)

const (
	AdminIDKey = "adminID"
)

// AdminAuth 后台 JWT 认证中间件
func AdminAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AuthError(c, "Authentication required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.AuthError(c, "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(AdminIDKey, claims.UserID)
		c.Next()
	}
}

// GetAdminID 从上下文获取运营账号 ID
func GetAdminID(c *gin.Context) (int64, bool) {
	adminID, exists := c.Get(AdminIDKey)
	if !exists {
		return 0, false
	}
	id, ok := adminID.(int64)
	return id, ok
}
