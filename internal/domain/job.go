package domain

import "time"

// JobStatus enumerates job lifecycle states.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transition is possible.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job tracks one asynchronous presentation generation from acceptance to a
// terminal state. Progress is monotonically non-decreasing and reaches 100
// only when the job completes.
type Job struct {
	ID          string
	Status      JobStatus
	Progress    int
	DownloadURL string
	FileName    string
	GammaURL    string
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
