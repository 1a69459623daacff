package http

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/prodfind"
	"github.com/temoto/robotstxt"
	"golang.org/x/net/html/charset"
)

// DefaultMaxSitemaps bounds how many sitemap documents one Harvest fetches.
// It guards against self-referential or generated sitemap indexes.
const DefaultMaxSitemaps = 10000

// maxSitemapSize is the decompressed size limit of one sitemap document.
// The sitemaps protocol caps files at 50MB uncompressed.
const maxSitemapSize = 100 << 20

// defaultSitemapPaths are probed on every sitemap host.
var defaultSitemapPaths = []string{"/sitemap.xml", "/sitemap_index.xml"}

// Ensure SitemapService implements prodfind.SitemapService.
var _ prodfind.SitemapService = (*SitemapService)(nil)

// SitemapService harvests product URLs from XML sitemaps.
// Sitemaps are fetched one at a time, breadth-first.
type SitemapService struct {
	fetcher     prodfind.Fetcher
	sites       prodfind.SiteRegistry
	maxSitemaps int
	logger      *slog.Logger
}

// SitemapOption configures a SitemapService.
type SitemapOption func(*SitemapService)

// WithMaxSitemaps sets the maximum number of sitemap documents fetched per
// harvest. Reaching the limit ends the harvest without error.
func WithMaxSitemaps(n int) SitemapOption {
	return func(s *SitemapService) {
		s.maxSitemaps = n
	}
}

// WithLogger sets the logger used for per-sitemap debug events.
func WithLogger(logger *slog.Logger) SitemapOption {
	return func(s *SitemapService) {
		s.logger = logger
	}
}

// NewSitemapService creates a new SitemapService that fetches with fetcher
// and classifies and seeds with sites.
func NewSitemapService(fetcher prodfind.Fetcher, sites prodfind.SiteRegistry, opts ...SitemapOption) *SitemapService {
	s := &SitemapService{
		fetcher:     fetcher,
		sites:       sites,
		maxSitemaps: DefaultMaxSitemaps,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Harvest returns the sorted product URLs listed in the target's sitemaps.
// Returns an empty slice (not nil) if no product URLs are found.
func (s *SitemapService) Harvest(ctx context.Context, target *prodfind.CrawlTarget) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Site overrides may move the sitemap host and add locations.
	host := target.Host
	var extraPaths []string
	if rules, ok := s.sites.Rules(target.Site); ok {
		if rules.SitemapHost != "" {
			host = rules.SitemapHost
		}
		extraPaths = rules.SitemapPaths
	}
	base := &url.URL{Scheme: target.Scheme, Host: host}

	queue := s.seedSitemaps(ctx, base, extraPaths)
	seen := make(map[string]struct{})
	products := prodfind.NewProductSet()
	processed := 0

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sitemapURL := queue[0]
		queue = queue[1:]
		if _, ok := seen[sitemapURL]; ok {
			continue
		}
		if processed >= s.maxSitemaps {
			s.logger.Warn("sitemap limit reached",
				"limit", s.maxSitemaps,
				"pending", len(queue)+1,
			)
			break
		}
		seen[sitemapURL] = struct{}{}
		processed++

		entries, err := s.fetchSitemap(ctx, sitemapURL)
		if err != nil {
			s.logger.Debug("sitemap skipped", "url", sitemapURL, "err", err)
			continue
		}

		for _, child := range entries.sitemaps {
			if _, ok := seen[child]; !ok {
				queue = append(queue, child)
			}
		}
		added := 0
		for _, loc := range entries.urls {
			if s.sites.IsProduct(loc, target.Site) && products.Add(loc) {
				added++
			}
		}
		s.logger.Debug("sitemap parsed",
			"url", sitemapURL,
			"sitemaps", len(entries.sitemaps),
			"urls", len(entries.urls),
			"products", added,
		)
	}

	return products.Sorted(), nil
}

// seedSitemaps returns the initial sitemap queue: robots.txt declarations
// first, then the well-known locations, then site-specific extra paths.
func (s *SitemapService) seedSitemaps(ctx context.Context, base *url.URL, extraPaths []string) []string {
	var seeds []string
	added := make(map[string]bool)
	add := func(u string) {
		if u != "" && !added[u] {
			added[u] = true
			seeds = append(seeds, u)
		}
	}

	for _, u := range s.robotsSitemaps(ctx, base) {
		add(u)
	}
	for _, p := range defaultSitemapPaths {
		add(base.ResolveReference(&url.URL{Path: p}).String())
	}
	for _, p := range extraPaths {
		add(base.ResolveReference(&url.URL{Path: p}).String())
	}
	return seeds
}

// robotsSitemaps returns the absolute sitemap URLs declared in robots.txt.
// Any failure is treated as an empty robots.txt.
func (s *SitemapService) robotsSitemaps(ctx context.Context, base *url.URL) []string {
	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"})
	res, err := s.fetcher.Fetch(ctx, robotsURL.String())
	if err != nil {
		s.logger.Debug("robots.txt unavailable", "url", robotsURL.String(), "err", err)
		return nil
	}
	if !res.IsText() {
		s.logger.Debug("robots.txt not text", "url", robotsURL.String(), "contentType", res.ContentType)
		return nil
	}

	var declared []string
	if data, err := robotstxt.FromBytes(res.Body); err == nil {
		declared = data.Sitemaps
	} else {
		declared = scanSitemapDirectives(res.Body)
	}

	var sitemaps []string
	for _, raw := range declared {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		ref, err := url.Parse(raw)
		if err != nil {
			continue
		}
		sitemaps = append(sitemaps, robotsURL.ResolveReference(ref).String())
	}
	return sitemaps
}

// scanSitemapDirectives extracts Sitemap: directives line by line.
// It backs up the robots.txt parser for files it rejects.
func scanSitemapDirectives(body []byte) []string {
	var sitemaps []string
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			if u := strings.TrimSpace(line[len("sitemap:"):]); u != "" {
				sitemaps = append(sitemaps, u)
			}
		}
	}
	return sitemaps
}

// sitemapEntries holds the <loc> values of one sitemap document.
type sitemapEntries struct {
	sitemaps []string // <sitemap><loc>, child sitemaps
	urls     []string // <url><loc>, candidate pages
}

// fetchSitemap fetches, decompresses and parses one sitemap document.
func (s *SitemapService) fetchSitemap(ctx context.Context, sitemapURL string) (*sitemapEntries, error) {
	res, err := s.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	data, err := decompress(res.Body)
	if err != nil {
		return nil, fmt.Errorf("decompressing sitemap: %w", err)
	}
	return parseSitemap(data)
}

// decompress gunzips data if it starts with the gzip magic bytes and
// returns it unchanged otherwise.
func decompress(data []byte) ([]byte, error) {
	if len(data) < 2 || data[0] != 0x1f || data[1] != 0x8b {
		return data, nil
	}
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gz.Close()
	return io.ReadAll(io.LimitReader(gz, maxSitemapSize))
}

// parseSitemap parses a <urlset> or <sitemapindex> document.
// Elements are matched by local name, so any namespace (or none) is accepted.
func parseSitemap(data []byte) (*sitemapEntries, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing sitemap XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap XML")
	}

	entries := &sitemapEntries{}
	for _, el := range root.ChildElements() {
		loc := childLoc(el)
		if loc == "" {
			continue
		}
		switch strings.ToLower(el.Tag) {
		case "sitemap":
			entries.sitemaps = append(entries.sitemaps, loc)
		case "url":
			entries.urls = append(entries.urls, loc)
		}
	}
	return entries, nil
}

// childLoc returns the trimmed text of el's first <loc> child.
func childLoc(el *etree.Element) string {
	for _, c := range el.ChildElements() {
		if strings.EqualFold(c.Tag, "loc") {
			return strings.TrimSpace(c.Text())
		}
	}
	return ""
}
