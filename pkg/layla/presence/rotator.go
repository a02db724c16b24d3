// Package presence rotates the bot's displayed activity status on a cron
// schedule.
package presence

import (
	"context"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Setter applies a status string to the platform.
type Setter func(ctx context.Context, status string) error

// Config configures the presence rotator.
type Config struct {
	// Statuses is the list cycled through. A single entry keeps a static
	// status.
	Statuses []string `yaml:"statuses"`

	// Schedule is a cron expression for rotation (e.g. "0 * * * *").
	Schedule string `yaml:"schedule"`
}

// Rotator cycles through configured statuses on a cron schedule.
type Rotator struct {
	cfg    Config
	setter Setter
	cron   *cron.Cron
	logger *slog.Logger

	mu  sync.Mutex
	idx int
}

// NewRotator creates a Rotator. setter is called for each rotation.
func NewRotator(cfg Config, setter Setter, logger *slog.Logger) *Rotator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rotator{
		cfg:    cfg,
		setter: setter,
		logger: logger.With("component", "presence"),
	}
}

// Start applies the first status immediately and schedules rotation.
// With fewer than two statuses or no schedule, no cron entry is created.
func (r *Rotator) Start(ctx context.Context) error {
	if len(r.cfg.Statuses) == 0 {
		return nil
	}

	r.apply(ctx)

	if len(r.cfg.Statuses) < 2 || r.cfg.Schedule == "" {
		return nil
	}

	r.cron = cron.New()
	if _, err := r.cron.AddFunc(r.cfg.Schedule, func() { r.apply(ctx) }); err != nil {
		return err
	}
	r.cron.Start()

	r.logger.Info("presence rotation started",
		"statuses", len(r.cfg.Statuses), "schedule", r.cfg.Schedule)
	return nil
}

// Stop halts rotation.
func (r *Rotator) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}

// apply sets the next status in the cycle.
func (r *Rotator) apply(ctx context.Context) {
	r.mu.Lock()
	status := r.cfg.Statuses[r.idx%len(r.cfg.Statuses)]
	r.idx++
	r.mu.Unlock()

	if err := r.setter(ctx, status); err != nil {
		r.logger.Warn("failed to set presence", "status", status, "error", err)
	}
}
