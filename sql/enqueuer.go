package sql

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/job"
)

// Enqueuer implements queuectl.Enqueuer using a SQL backend.
type Enqueuer struct {
	db *bun.DB
}

// NewEnqueuer creates a new SQL-backed Enqueuer. The provided *bun.DB
// must be initialized with InitDB before use.
func NewEnqueuer(db *bun.DB) *Enqueuer {
	return &Enqueuer{db: db}
}

// Enqueue inserts a new Pending row. input is assumed already validated
// and defaulted by queuectl.Queue; this layer only translates a
// uniqueness violation on the primary key into ErrDuplicateID.
func (e *Enqueuer) Enqueue(ctx context.Context, input queuectl.EnqueueInput) (*job.Job, error) {
	model := fromEnqueueInput(input)
	_, err := e.db.NewInsert().Model(model).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, queuectl.ErrDuplicateID
		}
		return nil, err
	}
	return model.toJob(), nil
}

// isUniqueViolation recognizes the error text SQLite drivers use for a
// primary key or unique constraint violation. bun does not normalize
// driver errors across dialects, so this matches on the well-known
// substring rather than a typed sentinel.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
