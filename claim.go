package queuectl

import (
	"context"

	"github.com/queuectl/queuectl/job"
)

// Claimer manages the Pending -> Processing transition.
type Claimer interface {
	// Claim selects one eligible pending job — (next_retry_at IS NULL OR
	// next_retry_at <= now) AND (run_at IS NULL OR run_at <= now),
	// ordered by priority DESC, created_at ASC — and atomically flips it
	// to Processing with started_at = now via a guarded
	// UPDATE ... WHERE id=? AND status='pending'.
	//
	// Claim returns (nil, nil) when no eligible job exists, or when the
	// guarded update lost the race to a concurrent claimer; in either
	// case the caller should poll again.
	Claim(ctx context.Context) (*job.Job, error)
}
