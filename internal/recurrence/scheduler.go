package recurrence

import (
	"context"
	"log/slog"
	"time"
)

// DefaultInterval is how often the scheduler materializes recurring
// transactions when no interval is configured.
const DefaultInterval = time.Hour

// Scheduler triggers the materializer on a fixed interval. Failures are
// logged and the next tick tries again; there is no backoff or retry.
type Scheduler struct {
	materializer *Materializer
	interval     time.Duration
	log          *slog.Logger
}

// NewScheduler creates a Scheduler. A non-positive interval falls back to
// DefaultInterval.
func NewScheduler(m *Materializer, interval time.Duration, log *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{materializer: m, interval: interval, log: log}
}

// Run materializes immediately, then on every tick until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if _, err := s.materializer.Run(ctx); err != nil {
		s.log.Error("materializing recurring transactions", "error", err)
	}
}
