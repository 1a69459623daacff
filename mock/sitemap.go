package mock

import (
	"context"

	"github.com/fwojciec/prodfind"
)

var _ prodfind.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of prodfind.SitemapService.
type SitemapService struct {
	HarvestFn func(ctx context.Context, target *prodfind.CrawlTarget) ([]string, error)
}

func (s *SitemapService) Harvest(ctx context.Context, target *prodfind.CrawlTarget) ([]string, error) {
	return s.HarvestFn(ctx, target)
}
