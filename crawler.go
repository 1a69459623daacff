package prodfind

import "context"

// Crawler runs the bounded same-origin HTML fallback crawl.
type Crawler interface {
	// Crawl visits pages reachable from the target's start URL within the
	// configured depth and visited-page limits and returns the visited
	// URLs that classify as product pages. Individual page failures are
	// skipped; only context cancellation is returned as an error.
	Crawl(ctx context.Context, target *CrawlTarget) ([]string, error)
}

// Discoverer finds the product URLs of a site from its start URL.
// Implementations hide the sitemap versus fallback crawl decision.
type Discoverer interface {
	// Discover returns the product URLs found for startURL, sorted
	// ascending with no duplicates. An empty result is not an error.
	// Returns EINVALID if startURL cannot be used as a crawl origin.
	Discover(ctx context.Context, startURL string) ([]string, error)
}
