package application

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OverdueMonitor periodically looks for entries that are still SCHEDULED after
// their start time has passed and reports them through the log. Acting on an
// overdue entry (reminders, cleanup) belongs to external collaborators; the
// monitor only surfaces them.
type OverdueMonitor struct {
	service *SchedulingService
	logger  *zap.Logger
	cron    *cron.Cron
}

// NewOverdueMonitor creates a monitor around the scheduling service.
func NewOverdueMonitor(service *SchedulingService, logger *zap.Logger) *OverdueMonitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverdueMonitor{
		service: service,
		logger:  logger,
		cron:    cron.New(),
	}
}

// Start begins sweeping at the given interval. It returns immediately; sweeps
// run on the cron's goroutine until Stop is called.
func (m *OverdueMonitor) Start(interval time.Duration) error {
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := m.cron.AddFunc("@every "+interval.String(), m.sweep)
	if err != nil {
		return err
	}
	m.cron.Start()
	m.logger.Info("overdue monitor started", zap.Duration("interval", interval))
	return nil
}

// Stop halts the sweep schedule and waits for a running sweep to finish.
func (m *OverdueMonitor) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

func (m *OverdueMonitor) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	overdue, err := m.service.ListOverdue(ctx)
	if err != nil {
		m.logger.Error("overdue sweep failed", zap.Error(err))
		return
	}
	if len(overdue) == 0 {
		return
	}

	for _, entry := range overdue {
		m.logger.Warn("schedule entry overdue",
			zap.String("entry_id", entry.ID),
			zap.String("title", entry.Title),
			zap.Time("start", entry.Start))
	}
}
