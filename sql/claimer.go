package sql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl/job"
)

// Claimer implements queuectl.Claimer using a SQL backend.
type Claimer struct {
	db *bun.DB
}

// NewClaimer creates a new SQL-backed Claimer. The provided *bun.DB must
// be initialized with InitDB before use.
func NewClaimer(db *bun.DB) *Claimer {
	return &Claimer{db: db}
}

// Claim selects the highest-priority, oldest eligible Pending job and
// atomically flips it to Processing via a guarded single-row UPDATE. The
// candidate SELECT and the ownership UPDATE are deliberately separate
// statements: ownership is decided by the UPDATE's affected-row count,
// not by the SELECT, so a second worker racing for the same row simply
// sees zero rows affected and is told to poll again.
func (c *Claimer) Claim(ctx context.Context) (*job.Job, error) {
	now := time.Now()
	var candidate jobModel
	err := c.db.NewSelect().
		Model(&candidate).
		Column("id").
		Where("status = ?", job.Pending).
		Where("run_at IS NULL OR run_at <= ?", now).
		Where("next_retry_at IS NULL OR next_retry_at <= ?", now).
		Order("priority DESC", "created_at ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	res, err := c.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("status = ?", job.Processing).
		Set("started_at = ?", now).
		Set("updated_at = ?", now).
		Where("id = ?", candidate.ID).
		Where("status = ?", job.Pending).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if !isAffected(res) {
		// Another worker claimed it between the SELECT and the UPDATE.
		return nil, nil
	}

	var claimed jobModel
	if err := c.db.NewSelect().Model(&claimed).Where("id = ?", candidate.ID).Scan(ctx); err != nil {
		return nil, err
	}
	return claimed.toJob(), nil
}
