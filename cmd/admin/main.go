package main

import (
	"context"
	"errors"
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
	"wineshop/internal/job"
	"wineshop/internal/notify"
	"wineshop/internal/repo"
	"wineshop/internal/service"
	"wineshop/internal/transport/http/handler"
	"wineshop/internal/transport/http/router"
	"wineshop/internal/transport/ws"
)

// brokerNotifier 订单状态推送经 redis 频道送到用户端进程
type brokerNotifier struct {
	broker *notify.Broker
	log    *zap.Logger
}

func (n *brokerNotifier) NotifyUser(userID uint64, ntf service.OrderNotification) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := n.broker.PublishToUser(ctx, userID, ntf); err != nil {
		n.log.Warn("order notify failed", zap.Uint64("user_id", userID), zap.Error(err))
	}
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.AutoMigrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	repos := repo.New(db)

	rdb := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	denylist := auth.NewRedisDenylist(rdb.RDB)
	broker := notify.NewBroker(rdb.RDB, log)

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
	orderSvc := service.NewOrderService(repos, &brokerNotifier{broker: broker, log: log}, log)
	chatSvc := service.NewChatService(repos)
	excelSvc := service.NewExcelService(repos, cfg.Import.BatchSize, log)

	// 客服 ws hub + 顾客来信回灌
	hub := ws.NewHub(log)
	fanoutCtx, stopFanout := context.WithCancel(context.Background())
	defer stopFanout()
	go broker.RunAdminFanout(fanoutCtx, hub)

	// 清理任务只在管理端进程跑一份
	cleanupSvc := job.NewCleanupService(repos, cfg.Jobs.DeletedProductKeepDays, log)
	scheduler := job.NewScheduler(
		cleanupSvc,
		time.Duration(cfg.Jobs.AccountCleanupIntervalMin)*time.Minute,
		time.Duration(cfg.Jobs.CartCleanupIntervalMin)*time.Minute,
		log,
	)
	scheduler.Start(fanoutCtx)

	r := router.NewAdminEngine(router.AdminDeps{
		Log:      log,
		JWTer:    jwter,
		Denylist: denylist,
		Auth:     handler.NewAuthHandler(userSvc, authSvc),
		Products: handler.NewAdminProductHandler(productSvc, excelSvc),
		Category: handler.NewAdminCategoryHandler(categorySvc),
		Orders:   handler.NewAdminOrderHandler(orderSvc),
		Users:    handler.NewAdminUserHandler(userSvc),
		Chat:     handler.NewAdminChatHandler(chatSvc, hub, broker, log),
		Maint:    handler.NewAdminMaintenanceHandler(scheduler),
	})

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	log.Info("admin api starting", zap.String("addr", addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("admin api start FAILED", zap.Error(err))
		}
	}()
	log.Info("admin api started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	scheduler.Stop()
	stopFanout()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("admin api stopped gracefully")
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
