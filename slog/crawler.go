package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/prodfind"
)

// Ensure LoggingCrawler implements prodfind.Crawler.
var _ prodfind.Crawler = (*LoggingCrawler)(nil)

// LoggingCrawler wraps a Crawler with logging.
type LoggingCrawler struct {
	next   prodfind.Crawler
	logger *slog.Logger
}

// NewLoggingCrawler creates a new LoggingCrawler.
func NewLoggingCrawler(next prodfind.Crawler, logger *slog.Logger) *LoggingCrawler {
	return &LoggingCrawler{next: next, logger: logger}
}

// Crawl delegates to the wrapped crawler and logs the operation.
func (c *LoggingCrawler) Crawl(ctx context.Context, target *prodfind.CrawlTarget) (urls []string, err error) {
	defer func(begin time.Time) {
		c.logger.Info("fallback crawl",
			"url", target.StartURL,
			"site", string(target.Site),
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Crawl(ctx, target)
}

// Ensure LoggingDiscoverer implements prodfind.Discoverer.
var _ prodfind.Discoverer = (*LoggingDiscoverer)(nil)

// LoggingDiscoverer wraps a Discoverer with logging.
type LoggingDiscoverer struct {
	next   prodfind.Discoverer
	logger *slog.Logger
}

// NewLoggingDiscoverer creates a new LoggingDiscoverer.
func NewLoggingDiscoverer(next prodfind.Discoverer, logger *slog.Logger) *LoggingDiscoverer {
	return &LoggingDiscoverer{next: next, logger: logger}
}

// Discover delegates to the wrapped discoverer and logs the operation.
func (d *LoggingDiscoverer) Discover(ctx context.Context, startURL string) (urls []string, err error) {
	defer func(begin time.Time) {
		d.logger.Info("discover",
			"url", startURL,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Discover(ctx, startURL)
}
