package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mbodji/stockroom/internal/service/reporting"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron         *cron.Cron
	schedule     string
	reportingSvc *reporting.Service
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. The schedule is a standard
// five-field cron expression.
func NewScheduler(schedule string, reportingSvc *reporting.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:         cron.New(),
		schedule:     schedule,
		reportingSvc: reportingSvc,
		logger:       logger,
	}
}

// Start registers the low-stock report job and starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.runLowStockReport); err != nil {
		s.logger.Error("failed to schedule low stock report", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runLowStockReport() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	report, err := s.reportingSvc.GenerateLowStockReport(ctx)
	if err != nil {
		s.logger.Error("failed to generate low stock report", zap.Error(err))
		return
	}

	s.logger.Info("scheduled low stock report completed", zap.Int("count", report.Count))
}
