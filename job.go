package prodfind

import (
	"context"
	"time"
)

// JobStatus is the lifecycle state of a discovery job.
type JobStatus string

// Job statuses.
const (
	JobPending JobStatus = "PENDING"
	JobRunning JobStatus = "RUNNING"
	JobDone    JobStatus = "DONE"
	JobFailed  JobStatus = "FAILED"
)

// Valid reports whether s is a known status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobPending, JobRunning, JobDone, JobFailed:
		return true
	}
	return false
}

// Job represents one discovery request and its outcome.
type Job struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	Status      JobStatus  `json:"status"`
	Products    []string   `json:"products"`
	ResultHash  string     `json:"resultHash,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created"`
	CompletedAt *time.Time `json:"completed"`
}

// Validate returns an error if the job contains invalid fields.
func (j *Job) Validate() error {
	if j.URL == "" {
		return Errorf(EINVALID, "job URL required")
	}
	if _, err := ParseStartURL(j.URL); err != nil {
		return err
	}
	return nil
}

// JobService represents a service for managing discovery jobs.
type JobService interface {
	// CreateJob stores a new PENDING job and sets its ID and CreatedAt.
	CreateJob(ctx context.Context, job *Job) error

	// FindJobByID retrieves a job and its products by ID.
	// Returns ENOTFOUND if job does not exist.
	FindJobByID(ctx context.Context, id string) (*Job, error)

	// FindJobs retrieves jobs matching the filter, newest first.
	// Products are not loaded.
	FindJobs(ctx context.Context, filter JobFilter) ([]*Job, error)

	// StartJob marks a job RUNNING.
	// Returns ENOTFOUND if job does not exist.
	StartJob(ctx context.Context, id string) error

	// CompleteJob stores the job's products and marks it DONE.
	// Returns ENOTFOUND if job does not exist.
	CompleteJob(ctx context.Context, id string, products []string, resultHash string) error

	// FailJob records the failure message and marks the job FAILED.
	// Returns ENOTFOUND if job does not exist.
	FailJob(ctx context.Context, id string, message string) error
}

// JobFilter represents a filter for FindJobs.
type JobFilter struct {
	Status *JobStatus `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
