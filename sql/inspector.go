package sql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/job"
)

// Inspector implements queuectl.Inspector using a SQL backend.
type Inspector struct {
	db *bun.DB
}

// NewInspector creates a new SQL-backed Inspector. The provided *bun.DB
// must be initialized with InitDB before use.
func NewInspector(db *bun.DB) *Inspector {
	return &Inspector{db: db}
}

// Get retrieves a job by id, returning ErrNotFound if none exists.
func (i *Inspector) Get(ctx context.Context, id string) (*job.Job, error) {
	var row jobModel
	err := i.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, queuectl.ErrNotFound
		}
		return nil, err
	}
	return row.toJob(), nil
}

// List returns up to limit jobs filtered by status. status == job.Unknown
// means no status filter; limit <= 0 means no limit.
func (i *Inspector) List(ctx context.Context, status job.Status, limit int) ([]*job.Job, error) {
	var rows []*jobModel
	query := i.db.NewSelect().Model(&rows).Order("priority DESC", "created_at ASC")
	if status != job.Unknown {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	ret := make([]*job.Job, len(rows))
	for idx, row := range rows {
		ret[idx] = row.toJob()
	}
	return ret, nil
}

// Stats returns per-state counts. Dead reflects the dead_letter_queue
// table, since dead jobs are removed from jobs on migration.
func (i *Inspector) Stats(ctx context.Context) (queuectl.Stats, error) {
	var stats queuectl.Stats
	counts := []struct {
		status *int64
		value  job.Status
	}{
		{&stats.Pending, job.Pending},
		{&stats.Processing, job.Processing},
		{&stats.Completed, job.Completed},
	}
	for _, c := range counts {
		n, err := i.db.NewSelect().Model((*jobModel)(nil)).Where("status = ?", c.value).Count(ctx)
		if err != nil {
			return queuectl.Stats{}, err
		}
		*c.status = int64(n)
	}
	dead, err := i.db.NewSelect().Model((*dlqModel)(nil)).Count(ctx)
	if err != nil {
		return queuectl.Stats{}, err
	}
	stats.Dead = int64(dead)
	return stats, nil
}
