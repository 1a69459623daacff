package prodfind

import "context"

// SitemapService harvests product URLs from a site's XML sitemaps.
type SitemapService interface {
	// Harvest resolves the target's sitemaps (robots.txt declarations,
	// well-known locations and site overrides), expands sitemap indexes
	// recursively and returns every <url><loc> that classifies as a
	// product page. Fetch and parse failures of individual sitemaps are
	// skipped; only context cancellation is returned as an error.
	Harvest(ctx context.Context, target *CrawlTarget) ([]string, error)
}
