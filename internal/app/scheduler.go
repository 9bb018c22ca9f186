package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionSweeper очищает сессии с истёкшим токеном
type SessionSweeper interface {
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}

// DialogPruner забывает брошенные диалоги бота
type DialogPruner interface {
	PruneDialogs() int
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	sweeper  SessionSweeper
	pruner   DialogPruner
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	now      func() time.Time
}

// NewScheduler создаёт новый планировщик
func NewScheduler(sweeper SessionSweeper, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
}

// SetDialogPruner подключает очистку диалогов к тому же тику
func (s *Scheduler) SetDialogPruner(p DialogPruner) {
	s.pruner = p
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("sweep_interval", s.interval))

	go s.runSessionSweepTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

func (s *Scheduler) runSessionSweepTask(ctx context.Context) {
	// Первый запуск сразу при старте
	s.sweepSessions(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweepSessions(ctx)
		case <-s.stopChan:
			s.logger.Info("Session sweep task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Session sweep task cancelled")
			return
		}
	}
}

// sweepSessions удаляет сессии с истёкшим токеном, чтобы бот не ходил в API с мёртвым токеном
func (s *Scheduler) sweepSessions(ctx context.Context) {
	if s.pruner != nil {
		if pruned := s.pruner.PruneDialogs(); pruned > 0 {
			s.logger.Debug("Abandoned dialogs pruned", zap.Int("count", pruned))
		}
	}

	cleared, err := s.sweeper.SweepExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("Failed to sweep expired sessions", zap.Error(err))
		return
	}

	if cleared > 0 {
		s.logger.Info("Expired sessions cleared", zap.Int("count", cleared))
	}
}
