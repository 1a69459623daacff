package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/prodfind"
	"github.com/fwojciec/prodfind/crawl"
	"github.com/fwojciec/prodfind/goquery"
	prodhttp "github.com/fwojciec/prodfind/http"
	prodprom "github.com/fwojciec/prodfind/prometheus"
	"github.com/fwojciec/prodfind/publicsuffix"
	prodslog "github.com/fwojciec/prodfind/slog"
	"github.com/fwojciec/prodfind/sqlite"
	"github.com/fwojciec/prodfind/yaml"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(); --db overrides it.
	DBPath string

	// SQLite database used by the job store. Opened only by commands that
	// need it.
	DB *sqlite.DB

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.DB = nil
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("prodfind"),
		kong.Description("Discover product page URLs on e-commerce sites"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'prodfind --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger, err := newLogger(stderr, cli.LogLevel)
	if err != nil {
		return err
	}
	deps.Logger = logger

	sites, err := loadSites(cli.Sites)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Set PRODFIND_SITES or --sites to a valid sites YAML file")
		return err
	}
	deps.Sites = sites

	defer m.Close()

	command := kongCtx.Command()
	if command == "sites" {
		return kongCtx.Run(deps)
	}

	if command == "serve" {
		deps.Metrics = prodprom.NewMetrics()
	}
	deps.Discoverer = m.newDiscoverer(cli, sites, logger, deps.Metrics)

	if strings.HasPrefix(command, "jobs") || command == "serve" {
		if cli.DB != "" {
			m.DBPath = cli.DB
		}
		if dir := filepath.Dir(m.DBPath); dir != "" {
			_ = os.MkdirAll(dir, 0755)
		}
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintln(stderr, "Hint: Set PRODFIND_DB to use a different database path")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		deps.Jobs = sqlite.NewJobService(m.DB)
	}

	return kongCtx.Run(deps)
}

// newDiscoverer wires the discovery pipeline from the global flags.
// Sitemap and page fetches use separate fetchers so that metrics and logs
// tell them apart. A nil metrics skips instrumentation.
func (m *Main) newDiscoverer(cli *CLI, sites *prodfind.Registry, logger *slog.Logger, metrics *prodprom.Metrics) prodfind.Discoverer {
	opts := []prodhttp.Option{
		prodhttp.WithTimeout(cli.Timeout),
		prodhttp.WithInsecureSkipVerify(!cli.StrictTLS),
	}
	if cli.UserAgent != "" {
		opts = append(opts, prodhttp.WithUserAgent(cli.UserAgent))
	}

	sitemapFetcher := m.fetcher(prodhttp.NewFetcher(opts...), logger, metrics, prodprom.KindSitemap)
	pageFetcher := m.fetcher(prodhttp.NewFetcher(opts...), logger, metrics, prodprom.KindPage)

	var sitemaps prodfind.SitemapService = prodhttp.NewSitemapService(sitemapFetcher, sites,
		prodhttp.WithLogger(logger),
	)
	sitemaps = prodslog.NewLoggingSitemapService(sitemaps, logger)

	var crawler prodfind.Crawler = &crawl.Crawler{
		Fetcher:     pageFetcher,
		Links:       goquery.NewLinkExtractor(),
		Sites:       sites,
		RateLimiter: crawl.NewDomainLimiter(cli.Rate),
		Concurrency: cli.Concurrency,
		MaxDepth:    cli.MaxDepth,
		MaxVisited:  cli.MaxVisited,
		Logger:      logger,
	}
	crawler = prodslog.NewLoggingCrawler(crawler, logger)

	threshold := cli.Threshold
	if threshold <= 0 {
		threshold = crawl.NeverCrawl
	}

	var discoverer prodfind.Discoverer = &crawl.Discoverer{
		Identifier: publicsuffix.NewIdentifier(),
		Sitemaps:   sitemaps,
		Crawler:    crawler,
		Threshold:  threshold,
		Logger:     logger,
	}
	discoverer = prodslog.NewLoggingDiscoverer(discoverer, logger)
	if metrics != nil {
		discoverer = metrics.Discoverer(discoverer)
	}
	return discoverer
}

func (m *Main) fetcher(f prodfind.Fetcher, logger *slog.Logger, metrics *prodprom.Metrics, kind string) prodfind.Fetcher {
	m.closers = append(m.closers, f)
	if metrics != nil {
		f = metrics.Fetcher(f, kind)
	}
	return prodslog.NewLoggingFetcher(f, logger)
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func loadSites(path string) (*prodfind.Registry, error) {
	if path == "" {
		return yaml.DefaultRegistry(), nil
	}
	return yaml.LoadRegistryFile(path)
}

func defaultDBPath() string {
	if path := os.Getenv("PRODFIND_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "prodfind.db"
	}
	return filepath.Join(home, ".prodfind", "prodfind.db")
}
