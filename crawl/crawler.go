package crawl

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/fwojciec/prodfind"
	"golang.org/x/sync/errgroup"
)

// Crawl defaults.
const (
	// DefaultConcurrency is the number of pages fetched simultaneously.
	DefaultConcurrency = 12
	// DefaultMaxDepth is the deepest link distance from the start URL that is fetched.
	DefaultMaxDepth = 3
	// DefaultMaxVisited caps the number of pages fetched in one crawl.
	DefaultMaxVisited = 2000
)

// Ensure Crawler implements prodfind.Crawler.
var _ prodfind.Crawler = (*Crawler)(nil)

// Crawler walks same-host HTML pages breadth-first from a target's start
// URL and collects the visited pages that classify as product pages.
//
// Pages are fetched by a fixed pool of workers. A single coordinator owns
// the frontier and the visited count, so the crawl stops dispatching as
// soon as MaxVisited pages have been handed out. Which pages are visited
// before the cap is reached depends on completion order.
type Crawler struct {
	Fetcher     prodfind.Fetcher
	Links       prodfind.LinkExtractor
	Sites       prodfind.Classifier
	RateLimiter prodfind.DomainLimiter // optional

	// Zero values mean the package defaults.
	Concurrency int
	MaxDepth    int
	MaxVisited  int

	Logger *slog.Logger // optional
}

// pageResult is what a worker reports back for one fetched page.
type pageResult struct {
	link    prodfind.CrawlLink
	product bool
	links   []string
	err     error
}

// Crawl visits pages reachable from target.StartURL and returns the sorted
// product URLs among them. Page failures are logged and skipped.
// Returns the context error if ctx ends before the crawl completes.
func (c *Crawler) Crawl(ctx context.Context, target *prodfind.CrawlTarget) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	concurrency := orDefault(c.Concurrency, DefaultConcurrency)
	maxDepth := orDefault(c.MaxDepth, DefaultMaxDepth)
	maxVisited := orDefault(c.MaxVisited, DefaultMaxVisited)
	logger := c.logger()

	frontier := NewFrontier()
	frontier.Push(prodfind.CrawlLink{URL: target.StartURL, Depth: 0})

	workCh := make(chan prodfind.CrawlLink)
	resultCh := make(chan pageResult)

	g, gctx := errgroup.WithContext(ctx)
	for range concurrency {
		g.Go(func() error {
			for link := range workCh {
				res := c.processPage(gctx, target, link)
				select {
				case resultCh <- res:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	products := prodfind.NewProductSet()
	dispatched := 0 // pages handed to workers, the visited count
	pending := 0    // pages currently being processed
	var next *prodfind.CrawlLink

coordinatorLoop:
	for {
		if next == nil && dispatched < maxVisited {
			if link, ok := frontier.Pop(); ok {
				next = &link
			}
		}
		if next == nil && pending == 0 {
			break
		}

		// A nil channel disables the dispatch case.
		var sendCh chan<- prodfind.CrawlLink
		var sendLink prodfind.CrawlLink
		if next != nil {
			sendCh = workCh
			sendLink = *next
		}

		select {
		case <-ctx.Done():
			break coordinatorLoop
		case sendCh <- sendLink:
			dispatched++
			pending++
			next = nil
		case res := <-resultCh:
			pending--
			c.handleResult(target, res, frontier, products, maxDepth, logger)
		}
	}

	close(workCh)
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if frontier.Len() > 0 || next != nil {
		logger.Debug("crawl visit limit reached",
			"limit", maxVisited,
			"unvisited", frontier.Len(),
		)
	}
	return products.Sorted(), nil
}

// processPage fetches one page, classifies it and extracts its links.
func (c *Crawler) processPage(ctx context.Context, target *prodfind.CrawlTarget, link prodfind.CrawlLink) pageResult {
	result := pageResult{link: link}

	if c.RateLimiter != nil {
		u, err := url.Parse(link.URL)
		if err != nil {
			result.err = err
			return result
		}
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			result.err = err
			return result
		}
	}

	res, err := c.Fetcher.Fetch(ctx, link.URL)
	if err != nil {
		result.err = err
		return result
	}
	if !res.IsHTML() {
		result.err = prodfind.Errorf(prodfind.EINVALID, "not HTML: %q", res.ContentType)
		return result
	}

	result.product = c.Sites.IsProduct(link.URL, target.Site)

	// Relative links resolve against the requested URL, not the final one,
	// so a redirect to another host keeps them on the target host.
	links, err := c.Links.ExtractLinks(string(res.Body), link.URL)
	if err != nil {
		result.err = err
		return result
	}
	result.links = links
	return result
}

// handleResult records a product page and queues its same-host links one
// level deeper. It runs on the coordinator goroutine only.
func (c *Crawler) handleResult(
	target *prodfind.CrawlTarget,
	res pageResult,
	frontier *Frontier,
	products *prodfind.ProductSet,
	maxDepth int,
	logger *slog.Logger,
) {
	if res.product {
		products.Add(res.link.URL)
	}
	if res.err != nil {
		logger.Debug("page skipped", "url", res.link.URL, "depth", res.link.Depth, "err", res.err)
		return
	}

	depth := res.link.Depth + 1
	if depth > maxDepth {
		return
	}
	for _, l := range res.links {
		if !target.SameHost(l) {
			continue
		}
		frontier.Push(prodfind.CrawlLink{URL: l, Depth: depth})
	}
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
