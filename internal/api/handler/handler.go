package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/chatthan/lastletter/config"
	"github.com/chatthan/lastletter/internal/service"
	"github.com/chatthan/lastletter/pkg/jwt"
)

// Handler 聚合各路由依赖
type Handler struct {
	friendSvc service.FriendService
	replySvc  service.ReplyService
	access    *service.AccessService
	sessions  *service.SessionManager
	visits    *service.VisitLogger
	jwtMgr    *jwt.Manager
	adminCfg  config.AdminConfig
}

func New(
	friendSvc service.FriendService,
	replySvc service.ReplyService,
	access *service.AccessService,
	sessions *service.SessionManager,
	visits *service.VisitLogger,
	jwtMgr *jwt.Manager,
	adminCfg config.AdminConfig,
) *Handler {
	return &Handler{
		friendSvc: friendSvc,
		replySvc:  replySvc,
		access:    access,
		sessions:  sessions,
		visits:    visits,
		jwtMgr:    jwtMgr,
		adminCfg:  adminCfg,
	}
}

// clientIP 解析客户端 IP：X-Forwarded-For 首跳 > X-Real-IP > "unknown"
func clientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		if first, _, _ := strings.Cut(fwd, ","); strings.TrimSpace(first) != "" {
			return strings.TrimSpace(first)
		}
	}
	if real := c.GetHeader("X-Real-IP"); real != "" {
		return real
	}
	return "unknown"
}

// checkAdminPIN 配了 bcrypt 哈希走哈希比对，否则明文比对
func (h *Handler) checkAdminPIN(pin string) bool {
	if h.adminCfg.PINHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(h.adminCfg.PINHash), []byte(pin)) == nil
	}
	return h.adminCfg.PIN != "" && h.adminCfg.PIN == pin
}
