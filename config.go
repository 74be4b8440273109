package queuectl

import "context"

// Recognized config keys. Reads are best-effort with documented
// defaults; unknown keys are not errors. Of these, only backoff_base is
// read by the queue itself (on every Fail); max_retries and
// worker_timeout are stored and listed but no code path reads them —
// Enqueue's defaults come from job.DefaultMaxRetries and
// job.DefaultTimeoutSeconds.
const (
	ConfigMaxRetries    = "max_retries"
	ConfigBackoffBase   = "backoff_base"
	ConfigWorkerTimeout = "worker_timeout"
)

// ConfigStore is the process-wide key/value tunable store.
// Values are read on demand, never cached, so an operator can change
// backoff_base mid-run and have it take effect on the next Fail call.
type ConfigStore interface {
	// GetConfig returns the value for key and true if it is set, or ""
	// and false if it is not. Unknown keys are not an error.
	GetConfig(ctx context.Context, key string) (string, bool, error)

	// SetConfig upserts key to value.
	SetConfig(ctx context.Context, key, value string) error

	// AllConfig returns every stored key/value pair.
	AllConfig(ctx context.Context) (map[string]string, error)
}
