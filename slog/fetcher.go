package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/prodfind"
)

// Ensure LoggingFetcher implements prodfind.Fetcher.
var _ prodfind.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   prodfind.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next prodfind.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (res *prodfind.Resource, err error) {
	defer func(begin time.Time) {
		var size int
		var contentType string
		if res != nil {
			size = len(res.Body)
			contentType = res.ContentType
		}
		f.logger.Debug("fetch",
			"url", url,
			"bytes", size,
			"contentType", contentType,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
