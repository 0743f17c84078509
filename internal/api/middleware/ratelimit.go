package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/chatthan/lastletter/pkg/response"
)

// RateLimit 单机令牌桶限流；只挂在后台登录接口上。
// 收信人口令重试按产品语义不限流。
func RateLimit(r float64, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			response.TooManyRequests(c, "too many attempts, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
