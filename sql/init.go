package sql

import (
	"context"
	"errors"
	"github.com/uptrace/bun"
)

func createJobsTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*jobModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// jobsColumn is one column of the jobs table, as it would be written in
// an ALTER TABLE ADD COLUMN statement.
type jobsColumn struct {
	name string
	ddl  string
}

// jobsColumns mirrors jobModel's bun tags. It exists separately because
// ADD COLUMN needs the column's full type and default spelled out as
// SQL text, not as a struct tag.
var jobsColumns = []jobsColumn{
	{"priority", "INTEGER NOT NULL DEFAULT 0"},
	{"timeout_seconds", "INTEGER NOT NULL DEFAULT 300"},
	{"run_at", "TIMESTAMP"},
	{"next_retry_at", "TIMESTAMP"},
	{"started_at", "TIMESTAMP"},
	{"completed_at", "TIMESTAMP"},
	{"error_message", "TEXT"},
	{"output", "TEXT"},
	{"execution_time_ms", "BIGINT"},
}

// migrateJobsColumns adds any jobsColumns missing from an existing jobs
// table, so a database created by an older version of this program picks
// up new fields with their documented defaults instead of erroring on
// every query that references them. bun has no schema-diffing migrator,
// so the existing columns are read directly from SQLite's table_info
// pragma.
func migrateJobsColumns(ctx context.Context, db bun.IDB) error {
	var existing []struct {
		Name string `bun:"name"`
	}
	if err := db.NewRaw("PRAGMA table_info(jobs)").Scan(ctx, &existing); err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, col := range existing {
		have[col.Name] = true
	}
	for _, col := range jobsColumns {
		if have[col.name] {
			continue
		}
		if _, err := db.NewRaw("ALTER TABLE jobs ADD COLUMN " + col.name + " " + col.ddl).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func createDLQTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*dlqModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func createConfigTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*configModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// createClaimIndex backs Claim's candidate-selection query: eligible
// pending jobs ordered by priority DESC, created_at ASC.
func createClaimIndex(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateIndex().
		Model((*jobModel)(nil)).
		Index("idx_jobs_claim").
		Column("status", "priority", "created_at").
		IfNotExists().
		Exec(ctx)
	return err
}

// createRetryIndex backs the next_retry_at eligibility check folded into
// the same claim query.
func createRetryIndex(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateIndex().
		Model((*jobModel)(nil)).
		Index("idx_jobs_next_retry").
		Column("next_retry_at").
		IfNotExists().
		Exec(ctx)
	return err
}

// createReaperIndex backs the reaper's scan for stuck Processing rows.
func createReaperIndex(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateIndex().
		Model((*jobModel)(nil)).
		Index("idx_jobs_reaper").
		Column("status", "started_at").
		IfNotExists().
		Exec(ctx)
	return err
}

func initDB(ctx context.Context, db *bun.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	steps := []func(context.Context, bun.IDB) error{
		createJobsTable,
		migrateJobsColumns,
		createDLQTable,
		createConfigTable,
		createClaimIndex,
		createRetryIndex,
		createReaperIndex,
	}
	for _, step := range steps {
		if err := step(ctx, tx); err != nil {
			return errors.Join(err, tx.Rollback())
		}
	}
	return tx.Commit()
}

// InitDB creates the jobs, dead_letter_queue and config tables and their
// supporting indexes inside a single transaction, if they do not already
// exist, and additively migrates the jobs table with any columns a
// previous version of the schema lacked. InitDB is idempotent and
// performs no destructive migrations; it is safe to call on every
// process startup.
func InitDB(ctx context.Context, db *bun.DB) error {
	return initDB(ctx, db)
}

// MustInitDB behaves like InitDB but panics on failure, for use in
// application bootstrap paths where a broken schema is unrecoverable.
func MustInitDB(ctx context.Context, db *bun.DB) {
	if err := initDB(ctx, db); err != nil {
		panic(err)
	}
}
