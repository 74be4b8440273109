package sql_test

import (
	"context"
	"testing"

	"github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/job"
	qsql "github.com/queuectl/queuectl/sql"
)

func TestRetryDeadRevivesWithFreshAttempts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	enq := qsql.NewEnqueuer(db)
	claimer := qsql.NewClaimer(db)
	reporter := qsql.NewReporter(db)
	dlq := qsql.NewDLQ(db)
	inspector := qsql.NewInspector(db)

	_, err := enq.Enqueue(ctx, queuectl.EnqueueInput{
		ID:             "job-1",
		Command:        "false",
		Priority:       ptrInt(0),
		TimeoutSeconds: ptrInt(300),
		MaxRetries:     ptrUint32(0),
	})
	if err != nil {
		t.Fatal(err)
	}

	claimed, err := claimer.Claim(ctx)
	if err != nil || claimed == nil {
		t.Fatalf("claim failed: %v", err)
	}
	// max_retries=0: attempts(0) < 0 is false, so this fails straight to
	// the DLQ.
	if err := reporter.Fail(ctx, claimed.ID, "boom"); err != nil {
		t.Fatal(err)
	}

	revived, err := dlq.RetryDead(ctx, "job-1")
	if err != nil {
		t.Fatal(err)
	}
	if revived.Status != job.Pending {
		t.Fatalf("expected revived job to be Pending, got %v", revived.Status)
	}
	if revived.Attempts != 0 {
		t.Fatalf("expected attempts reset to 0, got %d", revived.Attempts)
	}

	if _, err := inspector.Get(ctx, "job-1"); err != nil {
		t.Fatalf("expected job-1 back in the jobs table: %v", err)
	}

	entries, err := dlq.ListDLQ(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected DLQ entry removed after revival, got %d", len(entries))
	}
}

func TestRetryDeadNotFound(t *testing.T) {
	db := newTestDB(t)
	dlq := qsql.NewDLQ(db)
	if _, err := dlq.RetryDead(context.Background(), "missing"); err != queuectl.ErrDLQNotFound {
		t.Fatalf("expected ErrDLQNotFound, got %v", err)
	}
}
