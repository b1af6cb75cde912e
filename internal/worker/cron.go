package worker

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// KeywordReloader re-reads the external keyword table. Reload failures
// are logged by the reloader itself and leave the previous table active.
type KeywordReloader interface {
	Reload()
}

// Scheduler runs the periodic maintenance jobs: the nightly stats rollup
// and the hourly keyword table reload.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler wires the maintenance jobs.
func NewScheduler(stats StatsRefresher, reloader KeywordReloader, logger *zap.Logger) *Scheduler {
	c := cron.New()

	_, _ = c.AddFunc("5 0 * * *", func() {
		if _, err := stats.RefreshStats(context.Background()); err != nil {
			logger.Warn("nightly stats rollup failed", zap.Error(err))
		} else {
			logger.Info("nightly stats rollup complete")
		}
	})

	_, _ = c.AddFunc("0 * * * *", func() {
		reloader.Reload()
		logger.Debug("keyword table reload triggered")
	})

	return &Scheduler{cron: c, logger: logger}
}

// Start begins job execution in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("maintenance scheduler started")
}

// Stop halts the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("maintenance scheduler stopped")
}
