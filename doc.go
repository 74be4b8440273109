// Package queuectl provides a durable, storage-agnostic background-job
// queue with multi-worker execution, retries with exponential backoff, a
// dead-letter queue, priority and scheduled execution, and operator
// visibility.
//
// # Overview
//
// queuectl models jobs (shell commands) as rows with explicit state
// transitions. It defines a set of narrow interfaces — Enqueuer, Claimer,
// Reporter, Inspector, DLQManager, ConfigStore — composed into a single
// Backend contract, and a Queue facade that enforces the queue's
// invariants on top of whatever Backend a storage implementation
// provides. The sql subpackage supplies the reference implementation on
// top of SQLite via bun.
//
// # Delivery Semantics
//
// queuectl provides at-most-one concurrent execution per job id, and
// at-least-once overall: if a worker crashes mid-execution the job can be
// recovered by the reaper and executed again. Handlers (the job's shell
// command) should be safe to run more than once.
//
// # State Machine
//
//	Pending    -> Processing
//	Processing -> Completed
//	Processing -> Pending (via a retryable fail, next_retry_at set)
//	Processing -> Dead    (via an exhausted fail, migrated to the DLQ)
//
// Completed and Dead are terminal with respect to the jobs table. Failed
// is never a resting state: it is folded into a single atomic transition
// inside Queue.Fail and never observed externally.
//
// # Retry Policy
//
// Retry behavior is controlled by the retry package: delay equals
// backoff_base^attempts seconds, uncapped, without jitter. The base is
// read from the config table (key "backoff_base", default 2) on every
// Fail call — it is not cached.
//
// # Claim Semantics
//
// Claim selects the single highest-priority, oldest-eligible pending job
// and atomically flips it to Processing via a guarded
// UPDATE ... WHERE id=? AND status='pending'. If the guarded update
// affects zero rows, another worker won the race and Claim returns
// (nil, nil) for this round; the caller is expected to poll again.
//
// # Concurrency Model
//
// The only shared mutable state is the Backend. Every cross-worker
// invariant (at-most-one claim, attempt monotonicity) is enforced by a
// conditional update at the storage layer, not by in-process locks.
package queuectl
