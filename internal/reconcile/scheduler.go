package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler runs full reconciliation cycles on a cron schedule and keeps
// the outcome of the most recent run for the status endpoint.
type Scheduler struct {
	cron       *cron.Cron
	reconciler *Reconciler
	logger     *slog.Logger

	mu      sync.Mutex
	last    *Result
	lastErr error
}

// NewScheduler creates a scheduler around the reconciler.
func NewScheduler(reconciler *Reconciler, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		reconciler: reconciler,
		logger:     logger,
	}
}

// Start registers the schedule and starts the cron loop.
func (s *Scheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		res, runErr := s.reconciler.Run(context.Background(), Options{})
		s.mu.Lock()
		s.last, s.lastErr = res, runErr
		s.mu.Unlock()
		if runErr != nil {
			s.logger.Warn("scheduled reconciliation failed", "error", runErr)
		}
	})
	if err != nil {
		return fmt.Errorf("add schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	s.logger.Info("reconciliation scheduler started", "schedule", schedule)
	return nil
}

// Stop gracefully stops the cron loop.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("reconciliation scheduler stopped")
}

// LastRun returns the most recent run result and error, nil before the
// first scheduled run completes.
func (s *Scheduler) LastRun() (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.lastErr
}
