package worker_test

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"

	"github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/job"
	qsql "github.com/queuectl/queuectl/sql"
	"github.com/queuectl/queuectl/worker"
)

func newTestQueue(t *testing.T) *queuectl.Queue {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", "file::memory:?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	ctx := context.Background()
	if err := qsql.InitDB(ctx, db); err != nil {
		t.Fatal(err)
	}
	return queuectl.New(qsql.NewBackend(db), slog.Default())
}

func waitForStatus(t *testing.T, q *queuectl.Queue, id string, want job.Status) *job.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		got, err := q.Get(context.Background(), id)
		if err != nil {
			t.Fatal(err)
		}
		if got.Status == want {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %v", id, want)
	return nil
}

// waitForDeadLetter waits until id shows up in the dead-letter queue and
// checks that it is gone from the jobs table, since exhausted jobs are
// migrated out of it rather than left there with status Dead.
func waitForDeadLetter(t *testing.T, q *queuectl.Queue, id string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		entries, err := q.ListDLQ(context.Background(), 0)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if e.ID == id {
				if _, err := q.Get(context.Background(), id); err != queuectl.ErrNotFound {
					t.Fatalf("expected job %s removed from the jobs table, got err=%v", id, err)
				}
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached the dead-letter queue", id)
}

func TestPoolCompletesSuccessfulJob(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()
	j, err := q.Enqueue(ctx, queuectl.EnqueueInput{ID: "ok", Command: "echo hello"})
	if err != nil {
		t.Fatal(err)
	}

	cfg := worker.DefaultConfig(1)
	cfg.PollInterval = 20 * time.Millisecond
	pool := worker.NewPool(q, cfg, slog.Default())
	if err := pool.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer pool.Stop(time.Second)

	got := waitForStatus(t, q, j.ID, job.Completed)
	if got.Output == nil || *got.Output != "hello\n" {
		t.Fatalf("expected captured stdout, got %v", got.Output)
	}
}

func TestPoolRetriesFailedJob(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()
	if err := q.SetConfig(ctx, queuectl.ConfigBackoffBase, "0.0001"); err != nil {
		t.Fatal(err)
	}
	maxRetries := uint32(1)
	j, err := q.Enqueue(ctx, queuectl.EnqueueInput{ID: "fails", Command: "exit 1", MaxRetries: &maxRetries})
	if err != nil {
		t.Fatal(err)
	}

	cfg := worker.DefaultConfig(1)
	cfg.PollInterval = 10 * time.Millisecond
	pool := worker.NewPool(q, cfg, slog.Default())
	if err := pool.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer pool.Stop(time.Second)

	waitForDeadLetter(t, q, j.ID)
	entries, err := q.ListDLQ(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ID != "fails" {
		t.Fatalf("expected job fails dead-lettered, got %+v", entries)
	}
}

func TestPoolKillsTimedOutJob(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()
	timeout := 1
	j, err := q.Enqueue(ctx, queuectl.EnqueueInput{
		ID:             "slow",
		Command:        "sleep 5",
		TimeoutSeconds: &timeout,
		MaxRetries:     uint32Ptr(0),
	})
	if err != nil {
		t.Fatal(err)
	}

	cfg := worker.DefaultConfig(1)
	cfg.PollInterval = 10 * time.Millisecond
	cfg.KillGrace = 200 * time.Millisecond
	pool := worker.NewPool(q, cfg, slog.Default())
	if err := pool.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer pool.Stop(time.Second)

	waitForDeadLetter(t, q, j.ID)
	entries, err := q.ListDLQ(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ErrorMessage != "Job timed out after 1 seconds" {
		t.Fatalf("expected timeout reason recorded, got %+v", entries)
	}
}

func TestPoolDoubleStartFails(t *testing.T) {
	q := newTestQueue(t)
	pool := worker.NewPool(q, worker.DefaultConfig(1), slog.Default())
	if err := pool.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer pool.Stop(time.Second)

	if err := pool.Start(context.Background()); err == nil {
		t.Fatal("expected error starting an already-running pool")
	}
}

func TestPoolStopDrainsInFlightJobToCompletion(t *testing.T) {
	q := newTestQueue(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	timeout := 5
	j, err := q.Enqueue(ctx, queuectl.EnqueueInput{
		ID:             "draining",
		Command:        "sleep 0.3",
		TimeoutSeconds: &timeout,
	})
	if err != nil {
		t.Fatal(err)
	}

	cfg := worker.DefaultConfig(1)
	cfg.PollInterval = 10 * time.Millisecond
	pool := worker.NewPool(q, cfg, slog.Default())
	if err := pool.Start(ctx); err != nil {
		t.Fatal(err)
	}

	waitForStatus(t, q, j.ID, job.Processing)

	if err := pool.Stop(2 * time.Second); err != nil {
		t.Fatalf("stop returned error: %v", err)
	}

	got, err := q.Get(context.Background(), j.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != job.Completed {
		t.Fatalf("expected in-flight job to complete despite shutdown, got status %v", got.Status)
	}
}

func uint32Ptr(v uint32) *uint32 { return &v }
