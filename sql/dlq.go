package sql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/job"
)

// DLQ implements queuectl.DLQManager using a SQL backend.
type DLQ struct {
	db *bun.DB
}

// NewDLQ creates a new SQL-backed DLQ manager. The provided *bun.DB must
// be initialized with InitDB before use.
func NewDLQ(db *bun.DB) *DLQ {
	return &DLQ{db: db}
}

// ListDLQ returns up to limit dead-letter entries, newest failure first.
func (d *DLQ) ListDLQ(ctx context.Context, limit int) ([]*queuectl.DeadLetter, error) {
	var rows []*dlqModel
	query := d.db.NewSelect().Model(&rows).Order("failed_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	ret := make([]*queuectl.DeadLetter, len(rows))
	for i, row := range rows {
		ret[i] = row.toDeadLetter()
	}
	return ret, nil
}

// RetryDead re-creates a fresh Pending job from a dead-letter entry,
// preserving id, command and max_retries, with attempts reset to 0, and
// removes the DLQ entry. Both writes happen in one transaction.
func (d *DLQ) RetryDead(ctx context.Context, id string) (*job.Job, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	var dead dlqModel
	if err := tx.NewSelect().Model(&dead).Where("id = ?", id).Scan(ctx); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, queuectl.ErrDLQNotFound
		}
		return nil, err
	}

	if _, err := tx.NewDelete().Model((*dlqModel)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	now := time.Now()
	revived := &jobModel{
		ID:             dead.ID,
		Command:        dead.Command,
		Status:         job.Pending,
		Attempts:       0,
		MaxRetries:     dead.MaxRetries,
		TimeoutSeconds: job.DefaultTimeoutSeconds,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := tx.NewInsert().Model(revived).Exec(ctx); err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return revived.toJob(), nil
}
