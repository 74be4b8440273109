package queuectl

import (
	"context"

	"github.com/queuectl/queuectl/job"
)

// Stats is a point-in-time count of jobs by state.
type Stats struct {
	Pending    int64
	Processing int64
	Completed  int64
	Failed     int64
	Dead       int64
}

// Inspector provides read-only access to job state. It never mutates and
// never participates in lifecycle transitions.
type Inspector interface {
	// Get returns the job identified by id, or ErrNotFound if none
	// exists.
	Get(ctx context.Context, id string) (*job.Job, error)

	// List returns up to limit jobs in the given status. status ==
	// job.Unknown means no status filter. limit <= 0 means no limit.
	List(ctx context.Context, status job.Status, limit int) ([]*job.Job, error)

	// Stats returns current per-state counts across the jobs table. The
	// Dead count reflects the dead-letter queue, not the jobs table
	// (dead jobs are not present there).
	Stats(ctx context.Context) (Stats, error)
}
