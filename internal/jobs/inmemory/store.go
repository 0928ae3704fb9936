package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/atworth/bankfeed/internal/apperrors"
	"github.com/atworth/bankfeed/internal/jobs"
)

// Store keeps job state in memory. Data is lost on restart; operators retry
// from the folder contents, not from job history.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*jobs.IngestJob
}

// NewStore creates an empty in-memory job store.
func NewStore() *Store {
	return &Store{jobs: make(map[string]*jobs.IngestJob)}
}

// SaveJob saves or updates a job.
func (s *Store) SaveJob(ctx context.Context, job *jobs.IngestJob) error {
	if job.JobID == "" {
		return fmt.Errorf("job ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	jobCopy := *job
	s.jobs[job.JobID] = &jobCopy
	return nil
}

// GetJob retrieves a job by id.
func (s *Store) GetJob(ctx context.Context, jobID string) (*jobs.IngestJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("%w: job %s", apperrors.ErrNotFound, jobID)
	}

	jobCopy := *job
	return &jobCopy, nil
}
