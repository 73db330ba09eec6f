package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler re-runs an export on a cron schedule. It complements the
// change-driven Watcher for runs on network filesystems where fsnotify
// events are unreliable.
type Scheduler struct {
	spec    string
	cron    *cron.Cron
	logger  *slog.Logger
	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler for a standard five-field cron spec
// (e.g. "*/10 * * * *" for every ten minutes).
func NewScheduler(spec string) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}

	return &Scheduler{
		spec:   spec,
		cron:   cron.New(),
		logger: slog.Default().With("component", "watch.scheduler"),
	}, nil
}

// Start begins running the export on the schedule. It returns
// immediately; the scheduler stops when the context is canceled.
func (s *Scheduler) Start(ctx context.Context, run func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.cron.AddFunc(s.spec, func() {
		s.logger.Info("running scheduled export")
		if err := run(); err != nil {
			s.logger.Error("scheduled export failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("export scheduler started", "schedule", s.spec)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for a running export to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("export scheduler stopped")
	}
}
