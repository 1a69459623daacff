package mock

import (
	"context"

	"github.com/fwojciec/prodfind"
)

var _ prodfind.Crawler = (*Crawler)(nil)

// Crawler is a mock implementation of prodfind.Crawler.
type Crawler struct {
	CrawlFn func(ctx context.Context, target *prodfind.CrawlTarget) ([]string, error)
}

func (c *Crawler) Crawl(ctx context.Context, target *prodfind.CrawlTarget) ([]string, error) {
	return c.CrawlFn(ctx, target)
}

var _ prodfind.Discoverer = (*Discoverer)(nil)

// Discoverer is a mock implementation of prodfind.Discoverer.
type Discoverer struct {
	DiscoverFn func(ctx context.Context, startURL string) ([]string, error)
}

func (d *Discoverer) Discover(ctx context.Context, startURL string) ([]string, error) {
	return d.DiscoverFn(ctx, startURL)
}
