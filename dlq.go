package queuectl

import (
	"context"
	"time"

	"github.com/queuectl/queuectl/job"
)

// DeadLetter is a reduced, forensic snapshot of a job that exhausted its
// retries. DLQ entries are append-only from the system's
// perspective; RetryDead re-creates a fresh main-table row rather than
// mutating the DLQ entry in place.
type DeadLetter struct {
	ID           string
	Command      string
	Attempts     uint32
	MaxRetries   uint32
	CreatedAt    time.Time
	FailedAt     time.Time
	ErrorMessage string
}

// DLQManager exposes dead-letter inspection and manual revival.
type DLQManager interface {
	// ListDLQ returns up to limit dead-letter entries. limit <= 0 means
	// no limit.
	ListDLQ(ctx context.Context, limit int) ([]*DeadLetter, error)

	// RetryDead creates a fresh Pending job preserving id and command,
	// with attempts reset to 0, and removes the DLQ entry. Both writes
	// happen atomically. RetryDead returns ErrDLQNotFound if id does not
	// exist in the DLQ.
	RetryDead(ctx context.Context, id string) (*job.Job, error)
}
