package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wineshop/internal/core/auth"
	"wineshop/internal/core/cache"
	"wineshop/internal/core/config"
	"wineshop/internal/core/database"
	"wineshop/internal/core/logger"
	"wineshop/internal/core/mail"
	"wineshop/internal/core/server"
	"wineshop/internal/notify"
	"wineshop/internal/repo"
	"wineshop/internal/service"
	"wineshop/internal/transport/http/handler"
	"wineshop/internal/transport/http/router"
	"wineshop/internal/transport/ws"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.AutoMigrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	repos := repo.New(db)

	// redis：缓存 + 令牌拒绝名单 + 跨进程推送
	rdb := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	denylist := auth.NewRedisDenylist(rdb.RDB)
	broker := notify.NewBroker(rdb.RDB, log)

	// JWT
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	mailer := mail.NewMailgunSender(cfg.Mail.Domain, cfg.Mail.APIKey, cfg.Mail.From)

	// 服务
	userSvc := service.NewUserService(repos, mailer, cfg.App.BaseURL, log)
	authSvc := service.NewAuthService(repos, jwter, denylist)
	productSvc := service.NewProductService(repos, rdb)
	categorySvc := service.NewCategoryService(repos)
	cartSvc := service.NewCartService(repos)
	orderSvc := service.NewOrderService(repos, nil, log)
	reviewSvc := service.NewReviewService(repos)
	chatSvc := service.NewChatService(repos)

	// ws hub + 跨进程消息回灌
	hub := ws.NewHub(log)
	fanoutCtx, stopFanout := context.WithCancel(context.Background())
	defer stopFanout()
	go broker.RunUserFanout(fanoutCtx, hub)

	// 路由（用户端）
	r := router.NewAPIEngine(router.APIDeps{
		Log:      log,
		JWTer:    jwter,
		Denylist: denylist,
		Auth:     handler.NewAuthHandler(userSvc, authSvc),
		Users:    handler.NewUserHandler(userSvc),
		Products: handler.NewProductHandler(productSvc, reviewSvc),
		Category: handler.NewCategoryHandler(categorySvc),
		Cart:     handler.NewCartHandler(cartSvc),
		Orders:   handler.NewOrderHandler(orderSvc),
		Chat:     handler.NewChatHandler(chatSvc, hub, broker, log),
	})

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("shop api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("shop api start FAILED", zap.Error(err))
		}
	}()
	log.Info("shop api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	stopFanout()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("shop api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.File != "" {
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File,
			cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays, cfg.Log.Compress)
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
