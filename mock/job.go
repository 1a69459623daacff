package mock

import (
	"context"

	"github.com/fwojciec/prodfind"
)

var _ prodfind.JobService = (*JobService)(nil)

// JobService is a mock implementation of prodfind.JobService.
type JobService struct {
	CreateJobFn   func(ctx context.Context, job *prodfind.Job) error
	FindJobByIDFn func(ctx context.Context, id string) (*prodfind.Job, error)
	FindJobsFn    func(ctx context.Context, filter prodfind.JobFilter) ([]*prodfind.Job, error)
	StartJobFn    func(ctx context.Context, id string) error
	CompleteJobFn func(ctx context.Context, id string, products []string, resultHash string) error
	FailJobFn     func(ctx context.Context, id string, message string) error
}

func (s *JobService) CreateJob(ctx context.Context, job *prodfind.Job) error {
	return s.CreateJobFn(ctx, job)
}

func (s *JobService) FindJobByID(ctx context.Context, id string) (*prodfind.Job, error) {
	return s.FindJobByIDFn(ctx, id)
}

func (s *JobService) FindJobs(ctx context.Context, filter prodfind.JobFilter) ([]*prodfind.Job, error) {
	return s.FindJobsFn(ctx, filter)
}

func (s *JobService) StartJob(ctx context.Context, id string) error {
	return s.StartJobFn(ctx, id)
}

func (s *JobService) CompleteJob(ctx context.Context, id string, products []string, resultHash string) error {
	return s.CompleteJobFn(ctx, id, products, resultHash)
}

func (s *JobService) FailJob(ctx context.Context, id string, message string) error {
	return s.FailJobFn(ctx, id, message)
}
