package mock

import "github.com/fwojciec/prodfind"

var _ prodfind.SiteIdentifier = (*SiteIdentifier)(nil)

// SiteIdentifier is a mock implementation of prodfind.SiteIdentifier.
type SiteIdentifier struct {
	IdentifyFn func(rawURL string) prodfind.SiteID
}

func (i *SiteIdentifier) Identify(rawURL string) prodfind.SiteID {
	return i.IdentifyFn(rawURL)
}

var _ prodfind.SiteRegistry = (*SiteRegistry)(nil)

// SiteRegistry is a mock implementation of prodfind.SiteRegistry.
type SiteRegistry struct {
	IsProductFn func(rawURL string, site prodfind.SiteID) bool
	RulesFn     func(site prodfind.SiteID) (*prodfind.SiteRules, bool)
}

func (r *SiteRegistry) IsProduct(rawURL string, site prodfind.SiteID) bool {
	return r.IsProductFn(rawURL, site)
}

func (r *SiteRegistry) Rules(site prodfind.SiteID) (*prodfind.SiteRules, bool) {
	if r.RulesFn == nil {
		return nil, false
	}
	return r.RulesFn(site)
}
