package queuectl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/queuectl/queuectl/job"
)

// Backend is the full storage contract a Queue is built on: the union of
// Enqueuer, Claimer, Reporter, Inspector, DLQManager and ConfigStore. The
// sql subpackage is the reference implementation, grounded on SQLite via
// bun; any store offering the same atomic guarantees may implement it.
type Backend interface {
	Enqueuer
	Claimer
	Reporter
	Inspector
	DLQManager
	ConfigStore
}

// Queue is the invariant-preserving layer in front of storage. It is
// the only thing CLI commands, the dashboard and the worker pool talk to;
// Backend implementations never need their own validation logic because
// Queue applies it uniformly in front of every backend.
type Queue struct {
	backend Backend
	log     *slog.Logger
}

// New wraps backend in a Queue. log may be nil, in which case
// slog.Default() is used.
func New(backend Backend, log *slog.Logger) *Queue {
	if log == nil {
		log = slog.Default()
	}
	return &Queue{backend: backend, log: log}
}

// Enqueue validates and persists a new job. See EnqueueInput for defaults.
func (q *Queue) Enqueue(ctx context.Context, input EnqueueInput) (*job.Job, error) {
	if input.Command == "" {
		return nil, ErrInvalidCommand
	}
	if input.ID == "" {
		input.ID = uuid.New().String()
	}
	if input.Priority == nil {
		zero := 0
		input.Priority = &zero
	}
	if input.TimeoutSeconds == nil {
		d := job.DefaultTimeoutSeconds
		input.TimeoutSeconds = &d
	}
	if input.MaxRetries == nil {
		d := uint32(job.DefaultMaxRetries)
		input.MaxRetries = &d
	}
	return q.backend.Enqueue(ctx, input)
}

// Claim selects and locks the next eligible job, or returns (nil, nil) if
// none is available right now.
func (q *Queue) Claim(ctx context.Context) (*job.Job, error) {
	return q.backend.Claim(ctx)
}

// Complete records a successful execution.
func (q *Queue) Complete(ctx context.Context, id string, output string, executionMS int64) error {
	affected, err := q.backend.Complete(ctx, id, output, executionMS)
	if err != nil {
		return err
	}
	if !affected {
		q.log.Warn("complete called on a job that was not processing", "job_id", id)
	}
	return nil
}

// Fail records a failed execution attempt and branches into a retry or
// DLQ exhaustion, reading the current backoff_base config value (spec
// §4.3, §4.4).
func (q *Queue) Fail(ctx context.Context, id string, reason string) error {
	if err := q.backend.Fail(ctx, id, reason); err != nil {
		return fmt.Errorf("fail job %s: %w", id, err)
	}
	return nil
}

// Get returns a single job by id.
func (q *Queue) Get(ctx context.Context, id string) (*job.Job, error) {
	return q.backend.Get(ctx, id)
}

// List returns jobs filtered by status.
func (q *Queue) List(ctx context.Context, status job.Status, limit int) ([]*job.Job, error) {
	return q.backend.List(ctx, status, limit)
}

// Stats returns current per-state counts.
func (q *Queue) Stats(ctx context.Context) (Stats, error) {
	return q.backend.Stats(ctx)
}

// ListDLQ returns dead-letter entries.
func (q *Queue) ListDLQ(ctx context.Context, limit int) ([]*DeadLetter, error) {
	return q.backend.ListDLQ(ctx, limit)
}

// RetryDead revives a dead-letter entry into a fresh pending job.
func (q *Queue) RetryDead(ctx context.Context, id string) (*job.Job, error) {
	return q.backend.RetryDead(ctx, id)
}

// GetConfig reads a single config key and returns the raw stored value,
// if any. It applies no defaults; defaulting lives with the caller (e.g.
// retry policy construction).
func (q *Queue) GetConfig(ctx context.Context, key string) (string, bool, error) {
	return q.backend.GetConfig(ctx, key)
}

// SetConfig upserts a config key.
func (q *Queue) SetConfig(ctx context.Context, key, value string) error {
	return q.backend.SetConfig(ctx, key, value)
}

// AllConfig returns every stored config key/value pair.
func (q *Queue) AllConfig(ctx context.Context) (map[string]string, error) {
	return q.backend.AllConfig(ctx)
}
