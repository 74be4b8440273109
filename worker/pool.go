// Package worker implements the queue's pool of independently-polling
// workers: each worker claims a job, spawns it as a child process
// through the host shell, enforces its timeout, and reports the outcome
// back to the queue. There is no central dispatcher — workers share no
// state beyond the queue itself, and correctness rests entirely on
// Queue.Claim's guarded update.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/semaphore"

	"github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/internal"
	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/reaper"
)

// Config controls a Pool's concurrency and polling behavior.
type Config struct {
	// Count is the number of independently polling worker goroutines.
	Count int

	// PollInterval is the idle sleep between empty claims.
	PollInterval time.Duration

	// KillGrace is how long a timed-out child is given to exit after
	// the graceful signal before being forcibly killed.
	KillGrace time.Duration

	// Reaper, if non-nil, is started alongside the pool and stopped
	// with it.
	Reaper *reaper.Reaper

	// MaxConcurrent bounds how many child processes may run at once,
	// independent of Count: a pool can poll with many goroutines while
	// still capping how many commands actually execute simultaneously,
	// to avoid overloading the host. Defaults to Count (no extra cap).
	MaxConcurrent int
}

// DefaultConfig returns the documented polling and timeout defaults.
func DefaultConfig(count int) Config {
	return Config{
		Count:         count,
		PollInterval:  time.Second,
		KillGrace:     5 * time.Second,
		MaxConcurrent: count,
	}
}

var (
	jobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "queuectl_jobs_total",
		Help: "Total jobs processed by outcome.",
	}, []string{"outcome"})
	jobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "queuectl_job_duration_seconds",
		Help:    "Wall-clock duration of executed jobs.",
		Buckets: prometheus.DefBuckets,
	})
)

// Pool is a fixed-size set of independently polling workers.
type Pool struct {
	internal.LCBase
	queue  *queuectl.Queue
	cfg    Config
	log    *slog.Logger
	cancel context.CancelFunc
	done   internal.DoneChan
	sem    *semaphore.Weighted
}

// NewPool constructs a Pool over queue. log may be nil (slog.Default is
// used).
func NewPool(queue *queuectl.Queue, cfg Config, log *slog.Logger) *Pool {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Count <= 0 {
		cfg.Count = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.KillGrace <= 0 {
		cfg.KillGrace = 5 * time.Second
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = cfg.Count
	}
	return &Pool{queue: queue, cfg: cfg, log: log, sem: semaphore.NewWeighted(int64(cfg.MaxConcurrent))}
}

// Start launches the worker goroutines (and the reaper, if configured).
// Start returns ErrDoubleStarted if already running.
func (p *Pool) Start(ctx context.Context) error {
	if err := p.TryStart(); err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	workers := internal.RunWorkers(runCtx, p.cfg.Count, p.loop, p.log)

	if p.cfg.Reaper != nil {
		if err := p.cfg.Reaper.Start(runCtx); err != nil {
			p.log.Error("reaper failed to start", "err", err)
		}
	}
	p.done = workers
	return nil
}

// Stop requests graceful shutdown: no new jobs are claimed, but every
// worker currently running a child process runs it to natural completion
// — success, failure or timeout — on its own detached context, and
// reports that outcome before exiting, so a draining worker never loses
// a job to cancellation. timeout bounds how long Stop waits before
// returning ErrStopTimeout.
func (p *Pool) Stop(timeout time.Duration) error {
	return p.TryStop(timeout, func() internal.DoneChan {
		if p.cfg.Reaper != nil {
			_ = p.cfg.Reaper.Stop(timeout)
		}
		p.cancel()
		return p.done
	})
}

func (p *Pool) loop(ctx context.Context, index int) {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()
	for {
		if ctx.Err() != nil {
			return
		}
		j, err := p.queue.Claim(ctx)
		if err != nil {
			p.log.Error("claim failed", "worker", index, "err", err)
			j = nil
		}
		if j == nil {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			continue
		}
		// j is already marked processing in storage: it must run to
		// completion and be reported even if shutdown is requested
		// mid-flight. Shutdown only stops the loop from claiming further
		// work; it never reaches into an in-flight execution.
		if err := p.sem.Acquire(context.Background(), 1); err != nil {
			p.log.Error("semaphore acquire failed", "worker", index, "err", err)
			continue
		}
		p.execute(context.Background(), j)
		p.sem.Release(1)
	}
}

func (p *Pool) execute(ctx context.Context, j *job.Job) {
	timeout := time.Duration(j.TimeoutSeconds) * time.Second
	res := runCommand(ctx, j.Command, timeout, p.cfg.KillGrace)
	jobDuration.Observe(res.elapsed.Seconds())

	switch {
	case res.timedOut:
		jobsTotal.WithLabelValues("timeout").Inc()
		reason := fmt.Sprintf("Job timed out after %d seconds", j.TimeoutSeconds)
		p.reportFail(ctx, j.ID, reason)
	case res.exitErr != nil:
		jobsTotal.WithLabelValues("failed").Inc()
		p.reportFail(ctx, j.ID, failureReason(res))
	default:
		jobsTotal.WithLabelValues("completed").Inc()
		if err := p.queue.Complete(ctx, j.ID, res.stdout, res.elapsed.Milliseconds()); err != nil {
			p.log.Error("cannot complete job", "job_id", j.ID, "err", err)
		}
	}
}

func (p *Pool) reportFail(ctx context.Context, id string, reason string) {
	if err := p.queue.Fail(ctx, id, reason); err != nil {
		p.log.Error("cannot report job failure", "job_id", id, "err", err)
	}
}

// failureReason picks the message reported for a non-timeout failure: a
// spawn error is reported verbatim, a non-zero exit prefers stderr and
// falls back to a canonical exit-code message.
func failureReason(res result) string {
	var exitErr *exec.ExitError
	if !errors.As(res.exitErr, &exitErr) {
		return res.exitErr.Error()
	}
	if res.stderr != "" {
		return res.stderr
	}
	return fmt.Sprintf("Command failed with exit code %d", exitErr.ExitCode())
}
