package sql

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl/job"
)

// Reaper implements reaper.Store using a SQL backend.
type Reaper struct {
	db *bun.DB
}

// NewReaper creates a new SQL-backed Reaper. The provided *bun.DB must be
// initialized with InitDB before use.
func NewReaper(db *bun.DB) *Reaper {
	return &Reaper{db: db}
}

// ReapStuck resets every Processing job whose started_at is older than
// olderThan back to Pending, without touching attempts: the job never ran
// to completion, so it is not charged for the attempt its dead worker
// never finished.
func (r *Reaper) ReapStuck(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	now := time.Now()
	res, err := r.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("status = ?", job.Pending).
		Set("started_at = NULL").
		Set("updated_at = ?", now).
		Where("status = ?", job.Processing).
		Where("started_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return getAffected(res), nil
}
