package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/prodfind"
)

// DefaultThreshold is the sitemap yield below which the fallback crawl runs.
const DefaultThreshold = 50

// NeverCrawl is a Threshold that disables the fallback crawl.
const NeverCrawl = -1

// Ensure Discoverer implements prodfind.Discoverer.
var _ prodfind.Discoverer = (*Discoverer)(nil)

// Discoverer finds a site's product URLs. It harvests sitemaps first and
// runs the fallback crawl only when the sitemaps yield fewer than Threshold
// products. Results of both phases are merged.
type Discoverer struct {
	Identifier prodfind.SiteIdentifier
	Sitemaps   prodfind.SitemapService
	Crawler    prodfind.Crawler

	// Threshold is the minimum sitemap yield that skips the crawl.
	// Zero means DefaultThreshold; a negative value (NeverCrawl) means the
	// crawl never runs.
	Threshold int

	Logger *slog.Logger // optional
}

// Discover returns the sorted product URLs for startURL.
// Returns EINVALID if startURL is not an absolute http or https URL.
func (d *Discoverer) Discover(ctx context.Context, startURL string) ([]string, error) {
	target, err := prodfind.NewCrawlTarget(startURL, d.Identifier)
	if err != nil {
		return nil, err
	}

	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("url", target.StartURL, "site", string(target.Site))
	threshold := d.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}

	products := prodfind.NewProductSet()

	start := time.Now()
	harvested, err := d.Sitemaps.Harvest(ctx, target)
	if err != nil {
		return nil, err
	}
	products.AddAll(harvested)
	logger.Info("sitemap phase complete",
		"products", products.Len(),
		"duration", time.Since(start),
	)

	if threshold < 0 || products.Len() >= threshold {
		return products.Sorted(), nil
	}

	start = time.Now()
	crawled, err := d.Crawler.Crawl(ctx, target)
	if err != nil {
		return nil, err
	}
	added := products.AddAll(crawled)
	logger.Info("crawl phase complete",
		"products", len(crawled),
		"new", added,
		"duration", time.Since(start),
	)

	return products.Sorted(), nil
}
