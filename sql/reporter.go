package sql

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/retry"
)

// Reporter implements queuectl.Reporter using a SQL backend.
type Reporter struct {
	db *bun.DB
}

// NewReporter creates a new SQL-backed Reporter. The provided *bun.DB
// must be initialized with InitDB before use.
func NewReporter(db *bun.DB) *Reporter {
	return &Reporter{db: db}
}

// Complete unconditionally transitions id to Completed. affected reports
// whether the row was actually Processing at the time of the update.
func (r *Reporter) Complete(ctx context.Context, id string, output string, executionMS int64) (bool, error) {
	now := time.Now()
	res, err := r.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("status = ?", job.Completed).
		Set("output = ?", output).
		Set("execution_time_ms = ?", executionMS).
		Set("error_message = NULL").
		Set("next_retry_at = NULL").
		Set("completed_at = ?", now).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("status = ?", job.Processing).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	return isAffected(res), nil
}

// Fail loads the current row, evaluates the retry policy against its
// pre-increment attempt count, increments attempts, and either
// reschedules the job to Pending or migrates it to the dead-letter queue
// — all inside a single transaction, so the jobs and dead_letter_queue
// tables never observe an intermediate state.
func (r *Reporter) Fail(ctx context.Context, id string, reason string) error {
	now := time.Now()
	base := job.DefaultBackoffBase
	if v, ok, err := r.backoffBase(ctx); err != nil {
		return err
	} else if ok {
		base = v
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	var current jobModel
	if err := tx.NewSelect().Model(&current).Where("id = ?", id).Scan(ctx); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return queuectl.ErrNotFound
		}
		return err
	}

	policy := retry.New(current.MaxRetries, base)
	canRetry := policy.CanRetry(current.Attempts)
	newAttempts := current.Attempts + 1
	current.Attempts = newAttempts
	current.ErrorMessage = &reason
	current.UpdatedAt = now

	if canRetry {
		next := policy.NextRetryAt(now, newAttempts)
		current.Status = job.Pending
		current.NextRetryAt = &next
		_, err = tx.NewUpdate().
			Model(&current).
			Column("status", "attempts", "error_message", "next_retry_at", "updated_at").
			Where("id = ?", id).
			Exec(ctx)
	} else {
		current.Status = job.Dead
		dlqRow := dlqFromJob(&current, now, reason)
		if _, insErr := tx.NewInsert().Model(dlqRow).Exec(ctx); insErr != nil {
			_ = tx.Rollback()
			return insErr
		}
		_, err = tx.NewDelete().Model((*jobModel)(nil)).Where("id = ?", id).Exec(ctx)
	}
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *Reporter) backoffBase(ctx context.Context) (float64, bool, error) {
	var row configModel
	err := r.db.NewSelect().Model(&row).Where("key = ?", queuectl.ConfigBackoffBase).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	base, err := strconv.ParseFloat(row.Value, 64)
	if err != nil {
		return 0, false, nil
	}
	return base, true, nil
}
