package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/prodfind"
	"github.com/fwojciec/prodfind/crawl"
)

// listURLWidth is the display width of the URL column in "jobs list".
const listURLWidth = 60

// Run executes the jobs submit command.
func (c *JobsSubmitCmd) Run(deps *Dependencies) error {
	job := &prodfind.Job{URL: c.URL}
	if err := deps.Jobs.CreateJob(deps.Ctx, job); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prodfind.ErrorMessage(err))
		return err
	}

	runner := &crawl.JobRunner{Jobs: deps.Jobs, Discoverer: deps.Discoverer}
	job, err := runner.Run(deps.Ctx, job.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prodfind.ErrorMessage(err))
		return err
	}

	if job.Status == prodfind.JobFailed {
		fmt.Fprintf(deps.Stderr, "Job %s failed: %s\n", job.ID, job.Error)
		return fmt.Errorf("job %s failed", job.ID)
	}

	fmt.Fprintf(deps.Stdout, "Job %s %s: %d product URLs\n", job.ID, job.Status, len(job.Products))
	return nil
}

// Run executes the jobs list command.
func (c *JobsListCmd) Run(deps *Dependencies) error {
	filter := prodfind.JobFilter{Limit: c.Limit}
	if c.Status != "" {
		status := prodfind.JobStatus(c.Status)
		if !status.Valid() {
			err := prodfind.Errorf(prodfind.EINVALID, "invalid status %q", c.Status)
			fmt.Fprintf(deps.Stderr, "error: %s\n", prodfind.ErrorMessage(err))
			return err
		}
		filter.Status = &status
	}

	jobs, err := deps.Jobs.FindJobs(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prodfind.ErrorMessage(err))
		return err
	}

	if len(jobs) == 0 {
		fmt.Fprintln(deps.Stdout, "No jobs found. Use 'prodfind jobs submit' to create one.")
		return nil
	}

	for _, j := range jobs {
		fmt.Fprintf(deps.Stdout, "%s  %-7s  %s  %s\n",
			j.ID, j.Status, j.CreatedAt.Format(time.DateTime), crawl.TruncateURL(j.URL, listURLWidth))
	}
	return nil
}

// Run executes the jobs show command.
func (c *JobsShowCmd) Run(deps *Dependencies) error {
	job, err := deps.Jobs.FindJobByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prodfind.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "ID:       %s\n", job.ID)
	fmt.Fprintf(deps.Stdout, "URL:      %s\n", job.URL)
	fmt.Fprintf(deps.Stdout, "Status:   %s\n", job.Status)
	fmt.Fprintf(deps.Stdout, "Created:  %s\n", job.CreatedAt.Format(time.DateTime))
	if job.CompletedAt != nil {
		fmt.Fprintf(deps.Stdout, "Finished: %s\n", job.CompletedAt.Format(time.DateTime))
	}
	if job.Error != "" {
		fmt.Fprintf(deps.Stdout, "Error:    %s\n", job.Error)
	}
	if job.ResultHash != "" {
		fmt.Fprintf(deps.Stdout, "Hash:     %s\n", job.ResultHash)
	}
	fmt.Fprintf(deps.Stdout, "Products: %d\n", len(job.Products))
	fmt.Fprint(deps.Stdout, crawl.FormatProducts(job.Products))
	return nil
}
