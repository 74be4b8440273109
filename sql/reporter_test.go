package sql_test

import (
	"context"
	"testing"
	"time"

	"github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/job"
	qsql "github.com/queuectl/queuectl/sql"
)

func TestCompleteTransitionsToCompleted(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	enq := qsql.NewEnqueuer(db)
	claimer := qsql.NewClaimer(db)
	reporter := qsql.NewReporter(db)

	mustEnqueue(t, enq, ctx, "job-1", 0)
	claimed, err := claimer.Claim(ctx)
	if err != nil || claimed == nil {
		t.Fatalf("claim failed: %v", err)
	}

	affected, err := reporter.Complete(ctx, claimed.ID, "ok", 42)
	if err != nil {
		t.Fatal(err)
	}
	if !affected {
		t.Fatal("expected affected=true")
	}

	inspector := qsql.NewInspector(db)
	got, err := inspector.Get(ctx, claimed.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != job.Completed {
		t.Fatalf("expected Completed, got %v", got.Status)
	}
	if got.Output == nil || *got.Output != "ok" {
		t.Fatalf("expected output %q, got %v", "ok", got.Output)
	}
}

func TestCompleteOnNonProcessingIsNotAffected(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	enq := qsql.NewEnqueuer(db)
	reporter := qsql.NewReporter(db)

	mustEnqueue(t, enq, ctx, "job-1", 0)

	affected, err := reporter.Complete(ctx, "job-1", "ok", 0)
	if err != nil {
		t.Fatal(err)
	}
	if affected {
		t.Fatal("expected affected=false for a job still Pending")
	}
}

func TestFailReschedulesWithinRetryBudget(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	enq := qsql.NewEnqueuer(db)
	claimer := qsql.NewClaimer(db)
	reporter := qsql.NewReporter(db)
	cfg := qsql.NewConfig(db)

	if err := cfg.SetConfig(ctx, queuectl.ConfigBackoffBase, "2"); err != nil {
		t.Fatal(err)
	}
	_, err := enq.Enqueue(ctx, queuectl.EnqueueInput{
		ID:             "job-1",
		Command:        "false",
		Priority:       ptrInt(0),
		TimeoutSeconds: ptrInt(300),
		MaxRetries:     ptrUint32(2),
	})
	if err != nil {
		t.Fatal(err)
	}

	claimed, err := claimer.Claim(ctx)
	if err != nil || claimed == nil {
		t.Fatalf("claim failed: %v", err)
	}

	before := time.Now()
	if err := reporter.Fail(ctx, claimed.ID, "boom"); err != nil {
		t.Fatal(err)
	}

	inspector := qsql.NewInspector(db)
	got, err := inspector.Get(ctx, claimed.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != job.Pending {
		t.Fatalf("expected Pending after retryable failure, got %v", got.Status)
	}
	if got.Attempts != 1 {
		t.Fatalf("expected attempts=1, got %d", got.Attempts)
	}
	if got.NextRetryAt == nil {
		t.Fatal("expected next_retry_at to be set")
	}
	delay := got.NextRetryAt.Sub(before)
	if delay < time.Second || delay > 3*time.Second {
		t.Fatalf("expected ~2s backoff, got %v", delay)
	}
}

func TestFailExhaustsRetriesIntoDLQ(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	enq := qsql.NewEnqueuer(db)
	claimer := qsql.NewClaimer(db)
	reporter := qsql.NewReporter(db)
	cfg := qsql.NewConfig(db)

	// A tiny backoff base keeps the retry delay well under a millisecond
	// so the test does not need to sleep for the real default (2s).
	if err := cfg.SetConfig(ctx, queuectl.ConfigBackoffBase, "0.0001"); err != nil {
		t.Fatal(err)
	}

	_, err := enq.Enqueue(ctx, queuectl.EnqueueInput{
		ID:             "job-1",
		Command:        "false",
		Priority:       ptrInt(0),
		TimeoutSeconds: ptrInt(300),
		MaxRetries:     ptrUint32(1),
	})
	if err != nil {
		t.Fatal(err)
	}

	// First failure: max_retries=1 means attempts(0) < 1 is true, so it
	// must survive and go back to Pending.
	claimed, err := claimer.Claim(ctx)
	if err != nil || claimed == nil {
		t.Fatalf("claim failed: %v", err)
	}
	if err := reporter.Fail(ctx, claimed.ID, "first failure"); err != nil {
		t.Fatal(err)
	}

	inspector := qsql.NewInspector(db)
	got, err := inspector.Get(ctx, "job-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != job.Pending {
		t.Fatalf("expected job to survive its first failure, got %v", got.Status)
	}

	claimed2, err := claimer.Claim(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if claimed2 == nil {
		t.Fatal("expected job to be re-claimable once its (negligible) backoff elapsed")
	}
	if err := reporter.Fail(ctx, claimed2.ID, "second failure"); err != nil {
		t.Fatal(err)
	}

	if _, err := inspector.Get(ctx, "job-1"); err != queuectl.ErrNotFound {
		t.Fatalf("expected job removed from jobs table, got err=%v", err)
	}

	dlq := qsql.NewDLQ(db)
	entries, err := dlq.ListDLQ(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ID != "job-1" {
		t.Fatalf("expected job-1 in DLQ, got %+v", entries)
	}
	if entries[0].Attempts != 2 {
		t.Fatalf("expected attempts=2 in DLQ entry, got %d", entries[0].Attempts)
	}
}
