package prodfind

import (
	"net/url"
	"regexp"
	"slices"
	"strings"
)

// SiteID is the registrable domain of a site (e.g., "example.co.uk").
// It keys classification rules and is independent of subdomains.
type SiteID string

// SiteIdentifier derives the registrable domain of a URL.
type SiteIdentifier interface {
	// Identify returns the SiteID for rawURL.
	// Malformed URLs and URLs without a host return the empty SiteID.
	Identify(rawURL string) SiteID
}

// Classifier decides whether a URL is a product-detail page.
type Classifier interface {
	// IsProduct reports whether rawURL's path matches one of the rules
	// registered for site. Unknown sites never match.
	IsProduct(rawURL string, site SiteID) bool
}

// SiteRegistry is the read-only table of per-site rules.
type SiteRegistry interface {
	Classifier

	// Rules returns the rules registered for site.
	// The bool result is false if the site is not registered.
	Rules(site SiteID) (*SiteRules, bool)
}

// SiteRules holds the product-page patterns of one site along with the
// overrides used to seed sitemap harvesting.
type SiteRules struct {
	Site SiteID

	// Patterns are searched against the URL path (not the query string).
	// A URL is a product page if any pattern matches.
	Patterns []*regexp.Regexp

	// SitemapHost replaces the target host when fetching robots.txt and the
	// default sitemap locations. Empty means the target host.
	SitemapHost string

	// SitemapPaths are extra sitemap locations on the sitemap host,
	// fetched in addition to the robots.txt and well-known entries.
	SitemapPaths []string
}

// MatchPath reports whether path matches any of the rules' patterns.
func (r *SiteRules) MatchPath(path string) bool {
	for _, re := range r.Patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// Ensure Registry implements SiteRegistry.
var _ SiteRegistry = (*Registry)(nil)

// Registry is an immutable SiteRegistry built once at startup.
// It is safe for concurrent use.
type Registry struct {
	rules map[SiteID]*SiteRules
}

// NewRegistry returns a Registry holding rules. Later entries for the same
// site replace earlier ones. Site identifiers are lowercased.
func NewRegistry(rules ...*SiteRules) *Registry {
	r := &Registry{rules: make(map[SiteID]*SiteRules, len(rules))}
	for _, sr := range rules {
		if sr == nil {
			continue
		}
		site := SiteID(strings.ToLower(string(sr.Site)))
		cp := *sr
		cp.Site = site
		r.rules[site] = &cp
	}
	return r
}

// Rules returns the rules registered for site.
func (r *Registry) Rules(site SiteID) (*SiteRules, bool) {
	sr, ok := r.rules[site]
	return sr, ok
}

// IsProduct reports whether rawURL's path matches a pattern registered for site.
// Patterns see the path as written, percent-escapes included.
func (r *Registry) IsProduct(rawURL string, site SiteID) bool {
	sr, ok := r.rules[site]
	if !ok {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return sr.MatchPath(u.EscapedPath())
}

// Sites returns the registered site identifiers in lexical order.
func (r *Registry) Sites() []SiteID {
	sites := make([]SiteID, 0, len(r.rules))
	for site := range r.rules {
		sites = append(sites, site)
	}
	slices.Sort(sites)
	return sites
}
