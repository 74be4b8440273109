package queuectl

import "context"

// Reporter records the outcome of a processing attempt.
type Reporter interface {
	// Complete unconditionally transitions id to Completed, recording
	// output, executionMS and completed_at, and clearing error_message
	// and next_retry_at. Calling Complete on a job that is not currently
	// Processing is tolerated as an idempotent write but should not
	// occur in normal operation; affected reports whether a
	// row was actually in Processing at the time, so callers can log a
	// warning on the unexpected path without treating it as an error.
	Complete(ctx context.Context, id string, output string, executionMS int64) (affected bool, err error)

	// Fail loads the current job, increments attempts, and records
	// reason as the error message. If the job (evaluated on its
	// pre-increment attempt count) can still retry, it is rescheduled to
	// Pending with next_retry_at = now + backoff_base^attempts (attempts
	// here is the post-increment count). Otherwise it is migrated to the
	// dead-letter queue and removed from the jobs table in one atomic
	// transition. Fail returns ErrNotFound if id does not exist.
	Fail(ctx context.Context, id string, reason string) error
}
