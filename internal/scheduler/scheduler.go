package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"weather-dashboard/config"
	"weather-dashboard/internal/models"
	"weather-dashboard/pkg/logger"
)

const defaultRunTimeout = 30 * time.Second

type refresher interface {
	Refresh(ctx context.Context, city string) (models.CityReport, error)
}

// Scheduler keeps the dashboard cities warm in the cache.
type Scheduler struct {
	svc      refresher
	cron     *cron.Cron
	schedule string
	timeout  time.Duration
	cities   []string
	l        *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

func New(svc refresher, cfg config.RefreshConfig, l *logger.Logger) *Scheduler {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRunTimeout
	}

	cronLogger := cron.PrintfLogger(l)

	return &Scheduler{
		svc:      svc,
		cron:     cron.New(cron.WithLogger(cronLogger), cron.WithChain(cron.SkipIfStillRunning(cronLogger))),
		schedule: cfg.Schedule,
		timeout:  timeout,
		cities:   cfg.Cities,
		l:        l,
	}
}

// Start registers the refresh job and starts the cron loop. Jobs run until Stop or until ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	if _, err := s.cron.AddFunc(s.schedule, func() { _ = s.RunOnce(ctx) }); err != nil {
		cancel()
		return fmt.Errorf("schedule refresh %q: %w", s.schedule, err)
	}

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.cron.Start()
	s.l.Info("refresh scheduler started", map[string]any{"schedule": s.schedule, "cities": s.cities})

	return nil
}

// Stop cancels in-flight refreshes and waits for running jobs to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.l.Info("refresh scheduler stopped")
}

// RunOnce refreshes every configured city once, bounded by the run timeout.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	var errs []error

	for _, city := range s.cities {
		if _, err := s.svc.Refresh(ctx, city); err != nil {
			s.l.Warning("scheduled refresh failed", map[string]any{"city": city, "err": err})
			errs = append(errs, err)
		}
	}

	s.l.Debug("scheduled refresh finished", map[string]any{
		"cities":   len(s.cities),
		"failed":   len(errs),
		"duration": time.Since(start).String(),
	})

	return errors.Join(errs...)
}
