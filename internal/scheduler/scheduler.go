// Package scheduler runs the periodic broadcast cycle that announces
// published jobs to the configured webhooks.
package scheduler

import (
	"context"
	"fmt"

	"jobber/internal/usecase/broadcast"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler wraps robfig/cron around the broadcast cycle.
type Scheduler struct {
	cron       *cron.Cron
	broadcasts *broadcast.Service
	spec       string
	logger     *zap.SugaredLogger
}

// New creates a Scheduler with a cron spec, e.g. "@daily" or "0 9 * * *".
// An empty spec disables scheduling; Start becomes a no-op.
func New(broadcasts *broadcast.Service, spec string, logger *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLogger(cron.DiscardLogger)),
		broadcasts: broadcasts,
		spec:       spec,
		logger:     logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.spec == "" {
		s.logger.Infow("broadcast scheduler disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		s.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Infow("broadcast scheduler started", "spec", s.spec)
	return nil
}

// Stop waits for a running cycle to finish before returning.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Infow("broadcast scheduler stopped")
}

func (s *Scheduler) runCycle(ctx context.Context) {
	s.logger.Infow("broadcast cycle started")
	if err := s.broadcasts.RunCycle(ctx); err != nil {
		s.logger.Errorw("broadcast cycle failed", "error", err)
		return
	}
	s.logger.Infow("broadcast cycle complete")
}
