package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/quadtile/internal/launcher"
	"github.com/1broseidon/quadtile/internal/placement"
)

// JanitorConfig holds configuration for the janitor.
type JanitorConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Janitor periodically clears state that refers to things that no longer
// exist: the last-placed window registry once its window closed, and
// monitored children that have exited with nothing left to drain.
type Janitor struct {
	interval time.Duration
	sched    *placement.Scheduler
	launcher *launcher.Launcher
	logger   *slog.Logger
}

// NewJanitor creates a janitor over the scheduler and launcher.
func NewJanitor(cfg JanitorConfig, sched *placement.Scheduler, l *launcher.Launcher) *Janitor {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}

	return &Janitor{
		interval: interval,
		sched:    sched,
		launcher: l,
		logger:   cfg.Logger,
	}
}

// Run starts the cleanup loop. Blocks until context is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("janitor started", "interval", j.interval)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("janitor stopped")
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

// sweep performs a single cleanup pass.
func (j *Janitor) sweep() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			j.logger.Error("janitor panic recovered", "error", err)
		}
	}()

	j.sched.PruneLastPlaced()
	j.launcher.PruneChildren()
}

// SweepNow triggers an immediate cleanup pass.
func (j *Janitor) SweepNow() {
	j.sweep()
}
