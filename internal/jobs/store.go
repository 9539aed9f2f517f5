package jobs

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"server/internal/domain"
)

// Store is the process-wide job registry. Jobs are kept as value snapshots
// inside a go-cache instance; all mutations are serialized by a single mutex
// so readers always observe a fully-applied update. Terminal states are
// absorbing: once a job completes or fails, no mutator changes it again.
type Store struct {
	mu        sync.Mutex
	jobs      *cache.Cache
	retention time.Duration
}

// NewStore creates a Store. When retention is positive, terminal jobs expire
// after that duration; zero keeps every record for the process lifetime.
func NewStore(retention time.Duration) *Store {
	cleanup := time.Duration(0)
	if retention > 0 {
		cleanup = retention
	}
	return &Store{
		jobs:      cache.New(cache.NoExpiration, cleanup),
		retention: retention,
	}
}

// Create registers a new job in the processing state and returns a snapshot.
func (s *Store) Create() *domain.Job {
	now := time.Now().UTC()
	job := domain.Job{
		ID:        uuid.NewString(),
		Status:    domain.JobStatusProcessing,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs.Set(job.ID, job, cache.NoExpiration)
	snapshot := job
	return &snapshot
}

// Get returns a snapshot of the job or domain.ErrNotFound.
func (s *Store) Get(id string) (*domain.Job, error) {
	v, ok := s.jobs.Get(id)
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
	}
	job := v.(domain.Job)
	return &job, nil
}

// SetProgress raises the job's progress while it is still processing.
// Progress never decreases and is capped at 100.
func (s *Store) SetProgress(id string, progress int) error {
	return s.mutate(id, func(job *domain.Job) {
		if progress > 100 {
			progress = 100
		}
		if progress > job.Progress {
			job.Progress = progress
		}
	})
}

// Complete transitions the job to its completed terminal state. gammaURL is
// the provider's own export URL, kept alongside the local download link.
func (s *Store) Complete(id, downloadURL, fileName, gammaURL string) error {
	return s.mutate(id, func(job *domain.Job) {
		job.Status = domain.JobStatusCompleted
		job.Progress = 100
		job.DownloadURL = downloadURL
		job.FileName = fileName
		job.GammaURL = gammaURL
	})
}

// Fail transitions the job to its failed terminal state.
func (s *Store) Fail(id, message string) error {
	return s.mutate(id, func(job *domain.Job) {
		job.Status = domain.JobStatusFailed
		job.Error = message
	})
}

// mutate applies fn to the stored job atomically. Jobs already in a terminal
// state are left untouched.
func (s *Store) mutate(id string, fn func(*domain.Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.jobs.Get(id)
	if !ok {
		return fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
	}
	job := v.(domain.Job)
	if job.Status.Terminal() {
		return nil
	}
	fn(&job)
	job.UpdatedAt = time.Now().UTC()

	ttl := cache.NoExpiration
	if job.Status.Terminal() && s.retention > 0 {
		ttl = s.retention
	}
	s.jobs.Set(id, job, ttl)
	return nil
}
