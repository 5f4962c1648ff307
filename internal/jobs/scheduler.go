package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	portssvc "github.com/najmfleet/employee_requests_app/internal/core/ports/services"
	"github.com/najmfleet/employee_requests_app/internal/middleware"
)

// Scheduler owns the background cron jobs. Currently the only job is the
// remote mirror retry sweep.
type Scheduler struct {
	cron           *cron.Cron
	requestService portssvc.RequestSvcFacade
	logger         *slog.Logger
}

// NewScheduler creates a scheduler and registers the mirror retry sweep on
// the given cron spec (robfig/cron format, e.g. "@every 30m").
func NewScheduler(requestService portssvc.RequestSvcFacade, logger *slog.Logger, mirrorRetrySpec string) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(time.UTC))

	s := &Scheduler{
		cron:           c,
		requestService: requestService,
		logger:         logger,
	}

	if _, err := c.AddFunc(mirrorRetrySpec, s.runMirrorRetry); err != nil {
		return nil, err
	}
	return s, nil
}

// runMirrorRetry re-attempts remote replication for attachments whose
// mirror is missing or failed. Failures are logged, never fatal.
func (s *Scheduler) runMirrorRetry() {
	logger := s.logger.With(slog.String("job", "mirror_retry"))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = middleware.WithLogger(ctx, logger)

	logger.Info("Mirror retry sweep started")
	if err := s.requestService.RetryPendingMirrors(ctx); err != nil {
		logger.Error("Mirror retry sweep failed", slog.String("error", err.Error()))
		return
	}
	logger.Info("Mirror retry sweep finished")
}

// Start begins the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Cron scheduler started")
}

// Stop gracefully stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron scheduler stopped")
}
