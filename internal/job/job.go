package job

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status represents the current state of a background job.
type Status string

// Possible job status values
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Job type constants
const (
	// TypeOverdueSweep identifies the periodic overdue recomputation job.
	TypeOverdueSweep = "overdue_sweep"
)

// Job represents a unit of background work to be processed.
type Job interface {
	// ID returns the job's unique identifier
	ID() uuid.UUID

	// Type returns the job type identifier
	Type() string

	// Payload returns the job data as a byte slice
	Payload() []byte

	// Status returns the current job status
	Status() Status

	// Execute runs the job logic
	Execute(ctx context.Context) error
}

// Record is the persisted form of a job, as loaded from the store
// during recovery.
type Record struct {
	ID           uuid.UUID
	Type         string
	Payload      []byte
	Status       Status
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Factory rebuilds an executable Job from its persisted record. The
// runner uses one factory per registered job type to requeue work that
// survived a restart.
type Factory func(rec Record) (Job, error)

// Store defines the interface for persisting job state.
type Store interface {
	// SaveJob persists a new job.
	SaveJob(ctx context.Context, j Job) error

	// UpdateJobStatus updates the status of a job.
	UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status Status, errorMsg string) error

	// GetPendingJobs retrieves all jobs with "pending" status.
	GetPendingJobs(ctx context.Context) ([]Record, error)

	// GetProcessingJobs retrieves jobs with "processing" status.
	// If olderThan is non-zero, only jobs that have been in that state
	// longer than the given duration are returned.
	GetProcessingJobs(ctx context.Context, olderThan time.Duration) ([]Record, error)
}
