package router

import (
	"strings"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/chatthan/lastletter/config"
	_ "github.com/chatthan/lastletter/docs"
	"github.com/chatthan/lastletter/internal/api/handler"
	"github.com/chatthan/lastletter/internal/api/middleware"
	"github.com/chatthan/lastletter/pkg/jwt"
)

// slugchars slug 不允许空白与 URL 保留字符
func slugchars(fl validator.FieldLevel) bool {
	return !strings.ContainsAny(fl.Field().String(), " /?#")
}

// Setup 组装全部路由与中间件
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("slugchars", slugchars)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.Trace.Enabled {
		r.Use(otelgin.Middleware("lastletter"))
	}
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	v1 := r.Group("/api/v1")
	{
		letters := v1.Group("/letters")
		{
			letters.GET("/:slug", h.GetLetter)
			letters.POST("/:slug/passcode", h.SubmitPasscode)
			letters.POST("/:slug/session", h.OpenSession)
			letters.POST("/:slug/replies", h.CreateReply)
			letters.GET("/:slug/replies", h.ListReplies)
		}

		sessions := v1.Group("/sessions")
		{
			sessions.GET("/:token", h.GetSession)
			sessions.POST("/:token/passcode", h.SessionPasscode)
			sessions.DELETE("/:token", h.CloseSession)
		}

		admin := v1.Group("/admin")
		{
			admin.POST("/login", middleware.RateLimit(cfg.Admin.LoginRate, cfg.Admin.LoginBurst), h.Login)

			authed := admin.Group("", middleware.AdminAuth(jwtMgr))
			{
				authed.GET("/friends", h.ListFriends)
				authed.POST("/friends", h.CreateFriend)
				authed.GET("/friends/stats", h.FriendStats)
				authed.GET("/friends/:id", h.GetFriend)
				authed.PUT("/friends/:id", h.UpdateFriend)
				authed.DELETE("/friends/:id", h.DeleteFriend)
				authed.GET("/friends/:id/visits", h.FriendVisits)
				authed.GET("/friends/:id/qrcode", h.FriendQR)
				authed.GET("/visits", h.AllVisits)
				authed.GET("/replies", h.AllReplies)
				authed.GET("/replies/unread_count", h.UnreadCount)
				authed.PUT("/replies/:id/read", h.MarkReplyRead)
			}
		}
	}
	return r
}
