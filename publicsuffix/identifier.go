// Package publicsuffix derives registrable domains using the Public Suffix List.
package publicsuffix

import (
	"net"
	"net/url"
	"strings"

	"github.com/fwojciec/prodfind"
	"golang.org/x/net/publicsuffix"
)

// Ensure Identifier implements prodfind.SiteIdentifier.
var _ prodfind.SiteIdentifier = (*Identifier)(nil)

// Identifier implements prodfind.SiteIdentifier with the public suffix list
// compiled into golang.org/x/net/publicsuffix.
type Identifier struct{}

// NewIdentifier creates a new Identifier.
func NewIdentifier() *Identifier {
	return &Identifier{}
}

// Identify returns the effective TLD plus one label of rawURL's host,
// so "https://www.shop.example.co.uk/x" yields "example.co.uk".
//
// IP addresses, single-label hosts such as "localhost" and hosts that are
// themselves public suffixes have no registrable domain and are returned
// unchanged. Malformed URLs and URLs without a host return "".
func (i *Identifier) Identify(rawURL string) prodfind.SiteID {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}

	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return ""
	}

	if net.ParseIP(host) != nil {
		return prodfind.SiteID(host)
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return prodfind.SiteID(host)
	}
	return prodfind.SiteID(domain)
}
