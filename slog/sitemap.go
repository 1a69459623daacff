package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/prodfind"
)

// Ensure LoggingSitemapService implements prodfind.SitemapService.
var _ prodfind.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging.
type LoggingSitemapService struct {
	next   prodfind.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next prodfind.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// Harvest delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) Harvest(ctx context.Context, target *prodfind.CrawlTarget) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap harvest",
			"url", target.StartURL,
			"site", string(target.Site),
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Harvest(ctx, target)
}
