package room

import (
	"context"
	"log/slog"
	"time"

	"github.com/beatguessr/beatguessr-go/internal/dependencies/clock"
)

// Janitor evicts rooms that have seen no activity for longer than the TTL.
// The original design never deleted rooms at all; this is an explicit
// enhancement to stop long-running processes leaking finished games.
type Janitor struct {
	controller *Controller
	clock      clock.Clock
	ttl        time.Duration
	interval   time.Duration
	logger     *slog.Logger
}

// DefaultSweepInterval is how often the janitor scans when no interval is
// configured
const DefaultSweepInterval = 5 * time.Minute

// NewJanitor creates a janitor. A TTL of zero disables eviction.
func NewJanitor(controller *Controller, clk clock.Clock, ttl, interval time.Duration, logger *slog.Logger) *Janitor {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Janitor{
		controller: controller,
		clock:      clk,
		ttl:        ttl,
		interval:   interval,
		logger:     logger.With(slog.String("component", "janitor")),
	}
}

// Run sweeps on a ticker until the context is cancelled
func (j *Janitor) Run(ctx context.Context) {
	if j.ttl <= 0 {
		j.logger.Info("room eviction disabled")
		return
	}

	j.logger.Info("janitor started",
		slog.Duration("ttl", j.ttl),
		slog.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.Sweep(ctx)
		case <-ctx.Done():
			j.logger.Info("janitor stopped")
			return
		}
	}
}

// Sweep evicts all idle rooms once and returns how many were removed
func (j *Janitor) Sweep(ctx context.Context) int {
	cutoff := j.clock.Now().Add(-j.ttl)
	evicted, err := j.controller.EvictIdle(ctx, cutoff)
	if err != nil {
		j.logger.Error("sweep failed", slog.Any("error", err))
	}
	if len(evicted) > 0 {
		j.logger.Info("idle rooms evicted", slog.Int("count", len(evicted)))
	}
	return len(evicted)
}
