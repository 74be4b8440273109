// Package reaper implements an optional recovery task: a background
// scan that returns jobs stuck in processing — orphaned by a worker
// that crashed between claim and report — back to pending.
//
// Reaping does not increment attempts: a job that never got to run
// to completion because its worker died should not be charged for that
// attempt. This is the resolution to the "orphan processing jobs" open
// question, recorded in DESIGN.md.
package reaper

import (
	"context"
	"log/slog"
	"time"

	"github.com/queuectl/queuectl/internal"
)

// Store is the minimal storage contract the reaper needs: find stuck
// rows and reset them. It is implemented by the sql package without
// widening queuectl.Backend, since reaping is an operational concern,
// not a queue invariant that ordinary callers should see.
type Store interface {
	ReapStuck(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Reaper periodically scans for processing jobs whose started_at is
// older than Threshold and resets them to pending.
type Reaper struct {
	internal.LCBase
	store     Store
	threshold time.Duration
	interval  time.Duration
	log       *slog.Logger
	task      internal.TimerTask
}

// Config controls the reaper's scan threshold and period.
type Config struct {
	// Threshold is how long a job may sit in processing before it is
	// considered orphaned. Default 10 minutes (job.DefaultReaperThreshold).
	Threshold time.Duration

	// Interval is how often the scan runs. Defaults to Threshold/2 if
	// unset, so a stuck job is caught within roughly 1.5x the threshold.
	Interval time.Duration
}

// New constructs a Reaper. log may be nil (slog.Default is used).
func New(store Store, cfg Config, log *slog.Logger) *Reaper {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = 10 * time.Minute
	}
	if cfg.Interval <= 0 {
		cfg.Interval = cfg.Threshold / 2
	}
	return &Reaper{store: store, threshold: cfg.Threshold, interval: cfg.Interval, log: log}
}

// Start runs one scan immediately and then on Interval until ctx is
// canceled or Stop is called.
func (r *Reaper) Start(ctx context.Context) error {
	if err := r.TryStart(); err != nil {
		return err
	}
	r.task.Start(ctx, r.scan, r.interval)
	return nil
}

// Stop terminates the periodic scan, waiting up to timeout.
func (r *Reaper) Stop(timeout time.Duration) error {
	return r.TryStop(timeout, r.task.Stop)
}

func (r *Reaper) scan(ctx context.Context) {
	n, err := r.store.ReapStuck(ctx, r.threshold)
	if err != nil {
		r.log.Error("reaper scan failed", "err", err)
		return
	}
	if n > 0 {
		r.log.Warn("reaped orphaned processing jobs", "count", n)
	}
}
