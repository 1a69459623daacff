package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/prodfind"
	prodprom "github.com/fwojciec/prodfind/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Sites      *prodfind.Registry
	Discoverer prodfind.Discoverer
	Jobs       prodfind.JobService
	Metrics    *prodprom.Metrics
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB        string        `help:"SQLite database path (default ~/.prodfind/prodfind.db, or PRODFIND_DB)"`
	Sites     string        `env:"PRODFIND_SITES" type:"existingfile" help:"YAML file with site patterns (replaces the built-in table)"`
	LogLevel  string        `name:"log-level" env:"PRODFIND_LOG_LEVEL" default:"warn" enum:"debug,info,warn,error" help:"Log level (${enum})"`
	Timeout   time.Duration `env:"PRODFIND_TIMEOUT" default:"15s" help:"Per-request HTTP timeout"`
	UserAgent string        `name:"user-agent" env:"PRODFIND_USER_AGENT" help:"User-Agent header (default: desktop Chrome)"`
	StrictTLS bool          `name:"strict-tls" env:"PRODFIND_STRICT_TLS" help:"Verify TLS certificates"`

	Concurrency int     `short:"c" env:"PRODFIND_CONCURRENCY" default:"12" help:"Concurrent page fetches during the fallback crawl"`
	MaxDepth    int     `name:"max-depth" env:"PRODFIND_MAX_DEPTH" default:"3" help:"Maximum link depth from the start URL"`
	MaxVisited  int     `name:"max-visited" env:"PRODFIND_MAX_VISITED" default:"2000" help:"Maximum pages fetched by the fallback crawl"`
	Threshold   int     `env:"PRODFIND_THRESHOLD" default:"50" help:"Sitemap product count that skips the fallback crawl (0 = never crawl)"`
	Rate        float64 `env:"PRODFIND_RATE" default:"0" help:"Requests per second per host during the crawl (0 = unlimited)"`

	Discover DiscoverCmd `cmd:"" help:"Discover product URLs for a start URL"`
	Jobs     JobsCmd     `cmd:"" help:"Manage stored discovery jobs"`
	Serve    ServeCmd    `cmd:"" help:"Run the job HTTP API"`
	SitesCmd SitesCmd    `cmd:"" name:"sites" help:"List supported sites and their product patterns"`
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	URL    string `arg:"" help:"Start URL"`
	JSON   bool   `help:"Print a JSON document instead of one URL per line"`
	Output string `short:"o" type:"path" help:"Write the result to a file instead of stdout"`
}

// JobsCmd groups the "jobs" subcommands.
type JobsCmd struct {
	Submit JobsSubmitCmd `cmd:"" help:"Run a discovery job and store its result"`
	List   JobsListCmd   `cmd:"" help:"List stored jobs"`
	Show   JobsShowCmd   `cmd:"" help:"Show a job and its product URLs"`
}

// JobsSubmitCmd is the "jobs submit" subcommand.
type JobsSubmitCmd struct {
	URL string `arg:"" help:"Start URL"`
}

// JobsListCmd is the "jobs list" subcommand.
type JobsListCmd struct {
	Status string `short:"s" help:"Only show jobs with this status (PENDING, RUNNING, DONE, FAILED)"`
	Limit  int    `short:"n" default:"50" help:"Maximum number of jobs to show"`
}

// JobsShowCmd is the "jobs show" subcommand.
type JobsShowCmd struct {
	ID string `arg:"" help:"Job ID"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr      string `default:":8080" env:"PRODFIND_ADDR" help:"Listen address"`
	Workers   int    `default:"2" help:"Concurrent background jobs"`
	QueueSize int    `name:"queue-size" default:"100" help:"Jobs waiting for a worker before submissions are rejected"`
}

// SitesCmd is the "sites" subcommand.
type SitesCmd struct{}
