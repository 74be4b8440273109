package sql_test

import (
	"context"
	"testing"
	"time"

	"github.com/queuectl/queuectl/job"
	qsql "github.com/queuectl/queuectl/sql"
)

func TestReapStuckResetsOldProcessingJobs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	enq := qsql.NewEnqueuer(db)
	claimer := qsql.NewClaimer(db)
	reaper := qsql.NewReaper(db)
	inspector := qsql.NewInspector(db)

	mustEnqueue(t, enq, ctx, "stuck", 0)
	mustEnqueue(t, enq, ctx, "fresh", 0)

	stuck, err := claimer.Claim(ctx)
	if err != nil || stuck == nil {
		t.Fatalf("claim failed: %v", err)
	}
	fresh, err := claimer.Claim(ctx)
	if err != nil || fresh == nil {
		t.Fatalf("claim failed: %v", err)
	}

	backdated := time.Now().Add(-time.Hour)
	if _, err := db.NewUpdate().Table("jobs").
		Set("started_at = ?", backdated).
		Where("id = ?", stuck.ID).
		Exec(ctx); err != nil {
		t.Fatal(err)
	}

	n, err := reaper.ReapStuck(ctx, 10*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 job reaped, got %d", n)
	}

	got, err := inspector.Get(ctx, stuck.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != job.Pending {
		t.Fatalf("expected reaped job back to Pending, got %v", got.Status)
	}
	if got.Attempts != 0 {
		t.Fatalf("reaping must not increment attempts, got %d", got.Attempts)
	}
	if got.StartedAt != nil {
		t.Fatal("expected started_at cleared")
	}

	stillProcessing, err := inspector.Get(ctx, fresh.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stillProcessing.Status != job.Processing {
		t.Fatalf("expected fresh job left untouched, got %v", stillProcessing.Status)
	}
}

func TestReapStuckNoneEligible(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	reaper := qsql.NewReaper(db)

	n, err := reaper.ReapStuck(ctx, 10*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("expected 0 reaped on empty table, got %d", n)
	}
}
