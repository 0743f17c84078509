package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/chatthan/lastletter/config"
	"github.com/chatthan/lastletter/internal/api/handler"
	"github.com/chatthan/lastletter/internal/api/router"
	"github.com/chatthan/lastletter/internal/repository"
	"github.com/chatthan/lastletter/internal/service"
	"github.com/chatthan/lastletter/pkg/database"
	"github.com/chatthan/lastletter/pkg/jwt"
	"github.com/chatthan/lastletter/pkg/logger"
	"github.com/chatthan/lastletter/pkg/tracing"
)

// @title lastletter API
// @version 1.0
// @description 个性化信件投递站点的服务端接口
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level); err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	if cfg.Trace.Enabled {
		shutdown, err := tracing.Init(ctx, "lastletter", cfg.Trace.Endpoint)
		if err != nil {
			logger.Warn("tracing init failed", zap.Error(err))
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("open database", zap.Error(err))
		return
	}
	defer func() { _ = database.Close(db) }()

	var cache *redis.Client
	if cfg.Redis.Addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = cache.Close() }()
	}

	// repositories & services
	friendRepo := repository.NewFriendRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	replyRepo := repository.NewReplyRepository(db)

	visitLogger := service.NewVisitLogger(friendRepo, visitRepo, cfg.Visit.QueueSize)
	stopVisits := visitLogger.Start(cfg.Visit.Workers)

	accessSvc := service.NewAccessService(friendRepo, cfg.Letter.DefaultUnlockAt)
	sessionMgr := service.NewSessionManager(accessSvc, 30*time.Minute)
	friendSvc := service.NewFriendService(friendRepo, visitRepo, cfg.Server.BaseURL)
	replySvc := service.NewReplyService(replyRepo, friendRepo, cache, 10*time.Second)

	jwtMgr := jwt.NewManager(cfg.Admin.JWTSecret, cfg.Admin.JWTExpiry)
	h := handler.New(friendSvc, replySvc, accessSvc, sessionMgr, visitLogger, jwtMgr, cfg.Admin)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router.Setup(cfg, h, jwtMgr),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	sessionMgr.Shutdown()
	if err := stopVisits(shutdownCtx); err != nil {
		logger.Warn("visit logger shutdown", zap.Error(err))
	}
}
