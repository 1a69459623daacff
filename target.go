package prodfind

import (
	"net/url"
	"strings"
)

// CrawlTarget is the immutable description of one discovery run.
type CrawlTarget struct {
	StartURL string
	Scheme   string
	Host     string // host[:port] of the start URL, the same-origin boundary
	Site     SiteID
}

// NewCrawlTarget parses rawURL and derives the target's scheme, host and site.
// Returns EINVALID if rawURL is not an absolute http or https URL.
func NewCrawlTarget(rawURL string, ids SiteIdentifier) (*CrawlTarget, error) {
	u, err := ParseStartURL(rawURL)
	if err != nil {
		return nil, err
	}

	return &CrawlTarget{
		StartURL: u.String(),
		Scheme:   u.Scheme,
		Host:     u.Host,
		Site:     ids.Identify(u.String()),
	}, nil
}

// ParseStartURL parses and normalizes a discovery start URL. The scheme and
// host are lowercased, the fragment is dropped and an empty path becomes "/".
// Returns EINVALID if rawURL is not an absolute http or https URL.
func ParseStartURL(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, Errorf(EINVALID, "start URL required")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid start URL %q: %v", rawURL, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, Errorf(EINVALID, "start URL %q must use http or https", rawURL)
	}
	if u.Host == "" {
		return nil, Errorf(EINVALID, "start URL %q has no host", rawURL)
	}

	u.Scheme = scheme
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}

// Origin returns scheme://host for the target.
func (t *CrawlTarget) Origin() string {
	return t.Scheme + "://" + t.Host
}

// SameHost reports whether rawURL has exactly the target's host.
// Subdomains of the target host are not the same host.
func (t *CrawlTarget) SameHost(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, t.Host)
}
