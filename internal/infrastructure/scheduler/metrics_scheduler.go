package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shop/backend/internal/application/analytics"
	"github.com/shop/backend/internal/infrastructure/config"
)

// MetricsScheduler periodically rebuilds the daily metric rollups from the
// raw user event stream. Each run recomputes today and yesterday; the
// yesterday pass catches events that straddled midnight.
type MetricsScheduler struct {
	aggregator *analytics.Aggregator
	interval   time.Duration
	logger     *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewMetricsScheduler creates a metrics scheduler
func NewMetricsScheduler(cfg config.SchedulerConfig, aggregator *analytics.Aggregator, logger *zap.Logger) *MetricsScheduler {
	return &MetricsScheduler{
		aggregator: aggregator,
		interval:   cfg.Interval,
		logger:     logger,
	}
}

// Start launches the aggregation loop
func (s *MetricsScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("metrics scheduler started", zap.Duration("interval", s.interval))
	return nil
}

// Stop stops the aggregation loop and waits for an in-flight run to finish
func (s *MetricsScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("metrics scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("metrics scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *MetricsScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.aggregate(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.aggregate(ctx)
		}
	}
}

func (s *MetricsScheduler) aggregate(ctx context.Context) {
	now := time.Now()
	for _, day := range []time.Time{now, now.AddDate(0, 0, -1)} {
		if err := s.aggregator.AggregateDay(ctx, day); err != nil {
			s.logger.Error("metrics aggregation failed",
				zap.Time("day", day),
				zap.Error(err),
			)
		}
	}
}
