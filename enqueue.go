package queuectl

import (
	"context"
	"time"

	"github.com/queuectl/queuectl/job"
)

// EnqueueInput describes a new job. Command is required and non-empty;
// every other field falls back to a documented default.
type EnqueueInput struct {
	// ID, if non-empty, is used verbatim instead of generating a fresh
	// uuid. Supplying a duplicate id surfaces ErrDuplicateID from the
	// backend — callers get a uniqueness error, nothing is silently
	// deduplicated.
	ID string

	Command string

	// Priority defaults to 0.
	Priority *int

	// TimeoutSeconds defaults to job.DefaultTimeoutSeconds (300).
	TimeoutSeconds *int

	// MaxRetries defaults to job.DefaultMaxRetries (3).
	MaxRetries *uint32

	// RunAt, if set, is the earliest time the job may be claimed. Nil
	// means immediately eligible.
	RunAt *time.Time
}

// Enqueuer is the write-side entry point of the queue: it persists new
// jobs in the Pending state.
type Enqueuer interface {
	// Enqueue validates input, assigns an id if one was not supplied, and
	// persists a new Pending job. It returns ErrInvalidCommand for an
	// empty command and ErrDuplicateID if the caller-supplied id already
	// exists.
	Enqueue(ctx context.Context, input EnqueueInput) (*job.Job, error)
}
