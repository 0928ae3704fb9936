// Package inmemory provides channel-backed implementations of the job
// submitter and store, suitable for single-instance deployments and tests.
package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/atworth/bankfeed/internal/jobs"
	"github.com/google/uuid"
)

// Queue is an in-memory job queue. Submission enqueues and returns
// immediately; workers drain the channel and run the handler. For
// multi-instance deployments substitute the host scheduler behind the same
// port.
type Queue struct {
	jobChan   chan *jobs.IngestJob
	closeChan chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
	store     jobs.Store
	closed    bool
}

// NewQueue creates a queue. bufferSize bounds how many jobs can be pending
// before Submit blocks.
func NewQueue(bufferSize int, store jobs.Store) *Queue {
	return &Queue{
		jobChan:   make(chan *jobs.IngestJob, bufferSize),
		closeChan: make(chan struct{}),
		store:     store,
	}
}

// Submit enqueues an ingestion job and returns its id without waiting for
// processing.
func (q *Queue) Submit(ctx context.Context, job jobs.IngestJob) (string, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return "", fmt.Errorf("queue is closed")
	}

	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}
	if job.Type == "" {
		job.Type = jobs.JobTypeIngestFolder
	}
	if job.Status == "" {
		job.Status = jobs.JobStatusPending
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	if q.store != nil {
		if err := q.store.SaveJob(ctx, &job); err != nil {
			return "", fmt.Errorf("failed to save job: %w", err)
		}
	}

	select {
	case q.jobChan <- &job:
		return job.JobID, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-q.closeChan:
		return "", fmt.Errorf("queue is closed")
	}
}

// Start launches workerCount consumers that process jobs with handler.
func (q *Queue) Start(ctx context.Context, workerCount int, handler jobs.Handler) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return fmt.Errorf("queue is closed")
	}
	q.mu.RUnlock()

	if workerCount < 1 {
		workerCount = 1
	}
	for i := 0; i < workerCount; i++ {
		q.wg.Add(1)
		go q.worker(ctx, handler)
	}
	return nil
}

func (q *Queue) worker(ctx context.Context, handler jobs.Handler) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.closeChan:
			return
		case job := <-q.jobChan:
			if job == nil {
				return
			}
			q.processJob(ctx, job, handler)
		}
	}
}

func (q *Queue) processJob(ctx context.Context, job *jobs.IngestJob, handler jobs.Handler) {
	job.Status = jobs.JobStatusRunning
	now := time.Now()
	job.StartedAt = &now
	if q.store != nil {
		_ = q.store.SaveJob(ctx, job)
	}

	err := handler(ctx, job)

	completedAt := time.Now()
	job.CompletedAt = &completedAt
	if err != nil {
		job.Status = jobs.JobStatusFailed
		job.Error = err.Error()
	} else {
		job.Status = jobs.JobStatusCompleted
		job.Error = ""
	}
	if q.store != nil {
		_ = q.store.SaveJob(ctx, job)
	}
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.closeChan)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
