package job

import "time"

// Job is the principal entity of the queue: a unit of work (a shell
// command) together with its lifecycle state, retry bookkeeping and
// scheduling metadata.
//
// Job values returned by Queue are snapshots of storage state. Mutating a
// Job's fields directly does not change the underlying queue; all
// transitions must be performed through Queue operations, so every
// invariant is enforced in exactly one place.
type Job struct {
	ID      string
	Command string

	Status   Status
	Attempts uint32

	MaxRetries     uint32
	Priority       int
	TimeoutSeconds int

	RunAt       *time.Time
	NextRetryAt *time.Time

	CreatedAt   time.Time
	UpdatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time

	ErrorMessage *string
	Output       *string
	ExecutionMS  *int64
}

// Default tunables used when a caller does not supply an override and no
// config-table value is present.
const (
	DefaultMaxRetries      = 3
	DefaultTimeoutSeconds  = 300
	DefaultBackoffBase     = 2.0
	DefaultReaperThreshold = 10 * time.Minute
)

// CanRetry reports whether a job is still eligible for another attempt:
// attempts < max_retries. Must be evaluated against the pre-increment
// attempt count — sql.Reporter.Fail applies the same rule through
// retry.Policy.CanRetry before bumping Attempts, so that a job with
// max_retries=1 retries once (attempts 0->1) and only dies on the second
// failure (attempts 1->2).
func (j *Job) CanRetry() bool {
	return uint64(j.Attempts) < uint64(j.MaxRetries)
}

// MarkProcessing transitions the in-memory value to Processing, recording
// the start time. Persistence happens through Queue.Claim; this mutator
// only updates the value the caller already holds.
func (j *Job) MarkProcessing(now time.Time) {
	j.Status = Processing
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkCompleted transitions the in-memory value to Completed, recording
// output and execution time. error_message is cleared.
func (j *Job) MarkCompleted(now time.Time, output string, execMS int64) {
	j.Status = Completed
	j.CompletedAt = &now
	j.UpdatedAt = now
	j.Output = &output
	j.ExecutionMS = &execMS
	j.ErrorMessage = nil
	j.NextRetryAt = nil
}

// MarkFailed increments the attempt counter and records the failure
// reason. Call CanRetry before MarkFailed, not after: the branch is taken
// on the pre-increment count, then Attempts is bumped for bookkeeping
// regardless of which branch (retry vs. dead) is taken.
func (j *Job) MarkFailed(now time.Time, reason string) {
	j.Attempts++
	j.ErrorMessage = &reason
	j.UpdatedAt = now
}

// ScheduleRetry moves a failed job back to Pending with a future
// next_retry_at. next_retry_at only ever moves forward.
func (j *Job) ScheduleRetry(now time.Time, delay time.Duration) {
	next := now.Add(delay)
	j.Status = Pending
	j.NextRetryAt = &next
	j.UpdatedAt = now
}

// MarkDead transitions the in-memory value to Dead. It performs no table
// migration; the backend's Fail (sql.Reporter.Fail) moves an exhausted
// job to the DLQ atomically.
func (j *Job) MarkDead(now time.Time) {
	j.Status = Dead
	j.UpdatedAt = now
}
