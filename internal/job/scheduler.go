package job

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler 清理任务调度器，每项任务独立 goroutine 按各自周期跑
type Scheduler struct {
	cleanup         *CleanupService
	accountInterval time.Duration
	cartInterval    time.Duration
	log             *zap.Logger
	stopCh          chan struct{}
}

func NewScheduler(cleanup *CleanupService, accountInterval, cartInterval time.Duration, log *zap.Logger) *Scheduler {
	if accountInterval <= 0 {
		accountInterval = 24 * time.Hour
	}
	if cartInterval <= 0 {
		cartInterval = 24 * time.Hour
	}
	return &Scheduler{
		cleanup:         cleanup,
		accountInterval: accountInterval,
		cartInterval:    cartInterval,
		log:             log,
		stopCh:          make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("starting cleanup scheduler")
	go s.runExpiredAccountsCleanup(ctx)
	go s.runStaleCartItemsCleanup(ctx)
}

func (s *Scheduler) Stop() {
	s.log.Info("stopping cleanup scheduler")
	close(s.stopCh)
}

func (s *Scheduler) runExpiredAccountsCleanup(ctx context.Context) {
	ticker := time.NewTicker(s.accountInterval)
	defer ticker.Stop()

	// 启动先跑一轮
	if err := s.cleanup.CleanupExpiredAccounts(ctx); err != nil {
		s.log.Error("initial expired accounts cleanup failed", zap.Error(err))
	}

	for {
		select {
		case <-ticker.C:
			if err := s.cleanup.CleanupExpiredAccounts(ctx); err != nil {
				s.log.Error("expired accounts cleanup failed", zap.Error(err))
			}
		case <-s.stopCh:
			s.log.Info("expired accounts cleanup stopped")
			return
		case <-ctx.Done():
			s.log.Info("expired accounts cleanup cancelled")
			return
		}
	}
}

func (s *Scheduler) runStaleCartItemsCleanup(ctx context.Context) {
	ticker := time.NewTicker(s.cartInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.cleanup.CleanupStaleCartItems(ctx); err != nil {
				s.log.Error("stale cart items cleanup failed", zap.Error(err))
			}
		case <-s.stopCh:
			s.log.Info("stale cart items cleanup stopped")
			return
		case <-ctx.Done():
			s.log.Info("stale cart items cleanup cancelled")
			return
		}
	}
}

// RunOnceNow 全量清理立即跑一遍
func (s *Scheduler) RunOnceNow(ctx context.Context) error {
	if err := s.cleanup.CleanupExpiredAccounts(ctx); err != nil {
		return err
	}
	return s.cleanup.CleanupStaleCartItems(ctx)
}
