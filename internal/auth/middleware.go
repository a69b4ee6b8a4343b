package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// PlayerKey 是通过校验的参赛者在gin上下文中的键
const PlayerKey = "player"

// RequireToken 要求请求携带 Authorization: Bearer <token>
func (s *Service) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization header"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}

		id, err := s.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(PlayerKey, string(id))
		c.Next()
	}
}
