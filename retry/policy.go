// Package retry implements the queue's retry policy: a pure function from
// attempt count and backoff base to either a retry delay or a terminal
// dead-letter verdict. It holds no state and touches no storage.
package retry

import (
	"math"
	"time"
)

// Policy is the terminal-failure and backoff contract: it answers whether
// a failed job may still be retried, and if so, how long it must wait.
//
// Delay for a given attempt count is base^attempts seconds, uncapped and
// without jitter. Callers that want jitter or a cap must add it
// themselves via a config key.
type Policy struct {
	MaxRetries uint32
	Base       float64
}

// New constructs a Policy, defaulting Base to job.DefaultBackoffBase (2.0)
// when zero, since a base of zero would collapse every delay to zero.
func New(maxRetries uint32, base float64) Policy {
	if base <= 0 {
		base = 2.0
	}
	return Policy{MaxRetries: maxRetries, Base: base}
}

// CanRetry reports whether a job with the given attempt count, having just
// failed, is still eligible for another attempt: attempts < max_retries.
func (p Policy) CanRetry(attempts uint32) bool {
	return attempts < p.MaxRetries
}

// Delay returns the backoff duration before a job that has failed
// `attempts` times may be retried: base^attempts seconds.
func (p Policy) Delay(attempts uint32) time.Duration {
	seconds := math.Pow(p.Base, float64(attempts))
	return time.Duration(seconds * float64(time.Second))
}

// NextRetryAt is a convenience combining Delay with a reference clock.
func (p Policy) NextRetryAt(now time.Time, attempts uint32) time.Time {
	return now.Add(p.Delay(attempts))
}
