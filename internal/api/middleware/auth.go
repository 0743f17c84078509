package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chatthan/lastletter/pkg/jwt"
	"github.com/chatthan/lastletter/pkg/response"
)

// AdminAuth 校验 Authorization: Bearer <token>
func AdminAuth(mgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}
		subject, err := mgr.Verify(token)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}
		c.Set("admin_subject", subject)
		c.Next()
	}
}
