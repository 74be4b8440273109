package sql

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/job"
)

type jobModel struct {
	bun.BaseModel `bun:"table:jobs"`

	ID      string `bun:"id,pk"`
	Command string `bun:"command,notnull"`

	Status     job.Status `bun:"status,notnull,default:1"`
	Attempts   uint32     `bun:"attempts,notnull,default:0"`
	MaxRetries uint32     `bun:"max_retries,notnull,default:3"`
	Priority   int        `bun:"priority,notnull,default:0"`

	TimeoutSeconds int `bun:"timeout_seconds,notnull,default:300"`

	RunAt       *time.Time `bun:"run_at,nullzero"`
	NextRetryAt *time.Time `bun:"next_retry_at,nullzero"`

	CreatedAt   time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
	StartedAt   *time.Time `bun:"started_at,nullzero"`
	CompletedAt *time.Time `bun:"completed_at,nullzero"`

	ErrorMessage *string `bun:"error_message"`
	Output       *string `bun:"output"`
	ExecutionMS  *int64  `bun:"execution_time_ms"`
}

func (jm *jobModel) toJob() *job.Job {
	return &job.Job{
		ID:             jm.ID,
		Command:        jm.Command,
		Status:         jm.Status,
		Attempts:       jm.Attempts,
		MaxRetries:     jm.MaxRetries,
		Priority:       jm.Priority,
		TimeoutSeconds: jm.TimeoutSeconds,
		RunAt:          jm.RunAt,
		NextRetryAt:    jm.NextRetryAt,
		CreatedAt:      jm.CreatedAt,
		UpdatedAt:      jm.UpdatedAt,
		StartedAt:      jm.StartedAt,
		CompletedAt:    jm.CompletedAt,
		ErrorMessage:   jm.ErrorMessage,
		Output:         jm.Output,
		ExecutionMS:    jm.ExecutionMS,
	}
}

func fromEnqueueInput(input queuectl.EnqueueInput) *jobModel {
	now := time.Now()
	return &jobModel{
		ID:             input.ID,
		Command:        input.Command,
		Status:         job.Pending,
		Priority:       *input.Priority,
		TimeoutSeconds: *input.TimeoutSeconds,
		MaxRetries:     *input.MaxRetries,
		RunAt:          input.RunAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

type dlqModel struct {
	bun.BaseModel `bun:"table:dead_letter_queue"`

	ID           string    `bun:"id,pk"`
	Command      string    `bun:"command,notnull"`
	Attempts     uint32    `bun:"attempts,notnull"`
	MaxRetries   uint32    `bun:"max_retries,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull"`
	FailedAt     time.Time `bun:"failed_at,nullzero,notnull,default:current_timestamp"`
	ErrorMessage string    `bun:"error_message,notnull"`
}

func (dm *dlqModel) toDeadLetter() *queuectl.DeadLetter {
	return &queuectl.DeadLetter{
		ID:           dm.ID,
		Command:      dm.Command,
		Attempts:     dm.Attempts,
		MaxRetries:   dm.MaxRetries,
		CreatedAt:    dm.CreatedAt,
		FailedAt:     dm.FailedAt,
		ErrorMessage: dm.ErrorMessage,
	}
}

func dlqFromJob(jm *jobModel, failedAt time.Time, reason string) *dlqModel {
	return &dlqModel{
		ID:           jm.ID,
		Command:      jm.Command,
		Attempts:     jm.Attempts,
		MaxRetries:   jm.MaxRetries,
		CreatedAt:    jm.CreatedAt,
		FailedAt:     failedAt,
		ErrorMessage: reason,
	}
}

type configModel struct {
	bun.BaseModel `bun:"table:config"`

	Key       string    `bun:"key,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
