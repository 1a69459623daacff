package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/prodfind"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ prodfind.JobService = (*JobService)(nil)

// JobService implements prodfind.JobService using SQLite.
type JobService struct {
	db *DB
}

// NewJobService creates a new JobService.
func NewJobService(db *DB) *JobService {
	return &JobService{db: db}
}

// CreateJob stores a new PENDING job.
func (s *JobService) CreateJob(ctx context.Context, job *prodfind.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}

	job.ID = uuid.New().String()
	job.Status = prodfind.JobPending
	job.CreatedAt = time.Now().UTC().Truncate(time.Second)
	job.CompletedAt = nil
	job.Products = nil
	job.ResultHash = ""
	job.Error = ""

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, url, status, created_at)
		VALUES (?, ?, ?, ?)
	`, job.ID, job.URL, string(job.Status), job.CreatedAt.Format(time.RFC3339))

	return err
}

// FindJobByID retrieves a job and its products by ID.
func (s *JobService) FindJobByID(ctx context.Context, id string) (*prodfind.Job, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, status, error, result_hash, created_at, completed_at
		FROM jobs
		WHERE id = ?
	`, id)

	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, prodfind.Errorf(prodfind.ENOTFOUND, "job not found")
	}
	if err != nil {
		return nil, err
	}

	job.Products, err = s.findProducts(ctx, id)
	if err != nil {
		return nil, err
	}
	return job, nil
}

// findProducts returns a job's product URLs in stored order.
func (s *JobService) findProducts(ctx context.Context, jobID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url FROM product_urls WHERE job_id = ? ORDER BY position
	`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []string{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		products = append(products, u)
	}
	return products, rows.Err()
}

// FindJobs retrieves jobs matching the filter, newest first.
func (s *JobService) FindJobs(ctx context.Context, filter prodfind.JobFilter) ([]*prodfind.Job, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, url, status, error, result_hash, created_at, completed_at FROM jobs WHERE 1=1")

	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []*prodfind.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// StartJob marks a job RUNNING.
func (s *JobService) StartJob(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET status = ?, error = '' WHERE id = ?
	`, string(prodfind.JobRunning), id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// CompleteJob replaces the job's products and marks it DONE.
func (s *JobService) CompleteJob(ctx context.Context, id string, products []string, resultHash string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE jobs SET status = ?, error = '', result_hash = ?, completed_at = ? WHERE id = ?
	`, string(prodfind.JobDone), resultHash, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	if err := requireRow(result); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM product_urls WHERE job_id = ?", id); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO product_urls (job_id, position, url) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, u := range products {
		if _, err := stmt.ExecContext(ctx, id, i, u); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FailJob records the failure message and marks the job FAILED.
func (s *JobService) FailJob(ctx context.Context, id string, message string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET status = ?, error = ?, completed_at = ? WHERE id = ?
	`, string(prodfind.JobFailed), message, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// requireRow returns ENOTFOUND if result affected no rows.
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return prodfind.Errorf(prodfind.ENOTFOUND, "job not found")
	}
	return nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*prodfind.Job, error) {
	var job prodfind.Job
	var status, createdAt string
	var completedAt sql.NullString

	if err := row.Scan(&job.ID, &job.URL, &status, &job.Error, &job.ResultHash, &createdAt, &completedAt); err != nil {
		return nil, err
	}
	job.Status = prodfind.JobStatus(status)

	var err error
	job.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t, err := parseRFC3339(completedAt.String, "completed_at")
		if err != nil {
			return nil, err
		}
		job.CompletedAt = &t
	}
	return &job, nil
}
