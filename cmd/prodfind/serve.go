package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fwojciec/prodfind/chi"
	"github.com/fwojciec/prodfind/crawl"
)

// Run executes the serve command. It blocks until SIGINT or SIGTERM, then
// drains the running jobs before returning.
func (c *ServeCmd) Run(deps *Dependencies) error {
	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &crawl.JobRunner{Jobs: deps.Jobs, Discoverer: deps.Discoverer}
	queue := crawl.NewJobQueue(runner, c.Workers, c.QueueSize, deps.Logger)
	defer queue.Close()

	srv := chi.NewServer()
	srv.Jobs = deps.Jobs
	srv.Queue = queue
	srv.Runner = runner
	srv.Logger = deps.Logger
	if deps.Metrics != nil {
		srv.Metrics = deps.Metrics.Handler()
	}

	fmt.Fprintf(deps.Stdout, "Listening on %s\n", c.Addr)
	return srv.ListenAndServe(ctx, c.Addr)
}
