package prodfind

import "context"

// CrawlLink is a page queued for the fallback crawl.
type CrawlLink struct {
	URL   string
	Depth int // link distance from the start URL
}

// URLFrontier manages a crawl queue with deduplication.
type URLFrontier interface {
	// Push adds a link to the frontier.
	// Returns false if the URL has already been seen.
	Push(link CrawlLink) bool

	// Pop returns the shallowest queued link.
	// Returns false if the frontier is empty.
	Pop() (CrawlLink, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has been processed or queued.
	Seen(url string) bool
}

// DomainLimiter provides per-host rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the host.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, host string) error
}
