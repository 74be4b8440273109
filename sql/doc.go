// Package sql provides a bun-based SQLite storage implementation of the
// queuectl.Backend contract.
//
// # Concurrency model
//
// Claim is implemented as a read-only SELECT that picks a candidate row,
// followed by a single guarded UPDATE statement
// (UPDATE jobs SET status='processing', ... WHERE id=? AND
// status='pending'). Ownership is decided entirely by the affected-row
// count of that UPDATE, not by the SELECT: zero rows
// affected means another worker won the race, and the caller is expected
// to poll again. This makes two concurrent Claim calls racing for the
// same row safe without an explicit row lock.
//
// Fail performs its retry-vs-dead-letter branch and, when the job is
// exhausted, the DLQ migration and jobs-table deletion inside one
// transaction, so a crash partway through cannot leave a job in neither
// table nor in both.
//
// # Schema
//
// InitDB creates three tables — jobs, dead_letter_queue, config — plus
// indexes covering the claim-candidate query, the next_retry_at
// eligibility filter and the reaper's stuck-row scan. InitDB is
// idempotent and safe to call on every startup.
//
// # Database lifecycle
//
// This package does not manage connection pooling or migrations beyond
// InitDB's additive CREATE TABLE/INDEX IF NOT EXISTS and ALTER TABLE ADD
// COLUMN calls. The caller
// owns the *bun.DB and must call InitDB before using any of the backend
// implementations.
package sql
