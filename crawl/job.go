package crawl

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fwojciec/prodfind"
	"golang.org/x/sync/errgroup"
)

// JobRunner executes discovery jobs and records their outcome.
type JobRunner struct {
	Jobs       prodfind.JobService
	Discoverer prodfind.Discoverer
}

// Run marks job id running, discovers its products and stores the result.
// Discovery failures are recorded on the job rather than returned; the
// returned error reports storage failures only. Returns the finished job.
func (r *JobRunner) Run(ctx context.Context, id string) (*prodfind.Job, error) {
	job, err := r.Jobs.FindJobByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.Jobs.StartJob(ctx, id); err != nil {
		return nil, err
	}

	products, err := r.Discoverer.Discover(ctx, job.URL)

	// The outcome is stored even if ctx ended during discovery.
	storeCtx := context.WithoutCancel(ctx)
	if err != nil {
		if err := r.Jobs.FailJob(storeCtx, id, failureMessage(err)); err != nil {
			return nil, err
		}
	} else if err := r.Jobs.CompleteJob(storeCtx, id, products, ResultHash(products)); err != nil {
		return nil, err
	}

	return r.Jobs.FindJobByID(storeCtx, id)
}

// failureMessage returns the user-facing message for a failed discovery.
func failureMessage(err error) string {
	if prodfind.ErrorCode(err) != prodfind.EINTERNAL {
		return prodfind.ErrorMessage(err)
	}
	return err.Error()
}

// JobQueue runs enqueued jobs on a fixed number of background workers.
type JobQueue struct {
	runner *JobRunner
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	ids    chan string

	g *errgroup.Group
}

// NewJobQueue starts workers goroutines that run jobs with runner.
// Up to size job IDs may wait in the queue before Enqueue blocks.
// A nil logger discards worker logs.
func NewJobQueue(runner *JobRunner, workers, size int, logger *slog.Logger) *JobQueue {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	q := &JobQueue{
		runner: runner,
		logger: logger,
		ids:    make(chan string, max(size, 0)),
		g:      &errgroup.Group{},
	}
	for range workers {
		q.g.Go(func() error {
			q.work(context.Background())
			return nil
		})
	}
	return q
}

func (q *JobQueue) work(ctx context.Context) {
	for id := range q.ids {
		job, err := q.runner.Run(ctx, id)
		if err != nil {
			q.logger.Error("job failed to run", "job", id, "err", err)
			continue
		}
		q.logger.Info("job finished",
			"job", id,
			"status", string(job.Status),
			"products", len(job.Products),
		)
	}
}

// Enqueue schedules job id for execution.
// Returns EINTERNAL if the queue is closed, or the context error if ctx
// ends while the queue is full.
func (q *JobQueue) Enqueue(ctx context.Context, id string) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return prodfind.Errorf(prodfind.EINTERNAL, "job queue closed")
	}
	select {
	case q.ids <- id:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting jobs, runs the jobs already queued and waits for
// the workers to finish.
func (q *JobQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.ids)
	q.mu.Unlock()

	return q.g.Wait()
}
