package queuectl

import "errors"

var (
	// ErrInvalidCommand is returned by Enqueue when the command field is
	// empty.
	ErrInvalidCommand = errors.New("queuectl: command must not be empty")

	// ErrDuplicateID is returned by Enqueue when the caller supplies an id
	// that already exists in the jobs table. Enqueue does not generate a
	// fresh id on collision; the caller must retry with a new one.
	ErrDuplicateID = errors.New("queuectl: duplicate job id")

	// ErrNotFound is returned by Get when no job with the given id exists
	// in the jobs table.
	ErrNotFound = errors.New("queuectl: job not found")

	// ErrClaimLost indicates that a guarded claim update affected zero
	// rows: another worker won the race for this job, or the job moved
	// out of pending between selection and update. The sql Claimer
	// reports that case as (nil, nil) and does not return this error.
	ErrClaimLost = errors.New("queuectl: claim lost the race")

	// ErrDLQNotFound is returned by RetryDead when no DLQ entry with the
	// given id exists.
	ErrDLQNotFound = errors.New("queuectl: dead-letter entry not found")

	// ErrBadStatus is for backends that reject an operation because it
	// targets a non-terminal status where only terminal statuses are
	// accepted. The sql backend does not return it.
	ErrBadStatus = errors.New("queuectl: status is not terminal")
)
