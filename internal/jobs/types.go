// Package jobs defines the descriptors the batch host exchanges with the
// ingestion pipeline.
package jobs

import (
	"context"
	"time"
)

// JobType identifies the kind of work a job carries.
type JobType string

const (
	// JobTypeIngestFolder processes every statement file in one folder.
	JobTypeIngestFolder JobType = "ingest_folder"
)

// JobStatus is the lifecycle state of a submitted job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// IngestJob describes one batch ingestion run over an input folder.
type IngestJob struct {
	JobID       string     `json:"job_id"`
	Type        JobType    `json:"type"`
	FolderID    string     `json:"folder_id"`
	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`

	// Per-run counters, filled in when the job completes.
	FilesProcessed int `json:"files_processed"`
	FilesFailed    int `json:"files_failed"`
}

// Handler processes one job. A returned error marks the job failed.
type Handler func(ctx context.Context, job *IngestJob) error

// Store persists job state so operators can poll for status.
type Store interface {
	SaveJob(ctx context.Context, job *IngestJob) error
	GetJob(ctx context.Context, jobID string) (*IngestJob, error)
}
