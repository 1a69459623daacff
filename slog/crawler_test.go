package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/prodfind"
	"github.com/fwojciec/prodfind/mock"
	prodslog "github.com/fwojciec/prodfind/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingCrawler_Crawl(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.Crawler{
		CrawlFn: func(_ context.Context, target *prodfind.CrawlTarget) ([]string, error) {
			return []string{target.StartURL + "p/1"}, nil
		},
	}

	urls, err := prodslog.NewLoggingCrawler(inner, logger).Crawl(context.Background(), testTarget)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://shop.example.com/p/1"}, urls)
	output := buf.String()
	assert.Contains(t, output, "fallback crawl")
	assert.Contains(t, output, "site=example.com")
	assert.Contains(t, output, "count=1")
}

func TestLoggingDiscoverer_Discover(t *testing.T) {
	t.Parallel()

	t.Run("logs discovery with count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Discoverer{
			DiscoverFn: func(_ context.Context, _ string) ([]string, error) {
				return []string{"https://shop.example.com/p/1", "https://shop.example.com/p/2"}, nil
			},
		}

		urls, err := prodslog.NewLoggingDiscoverer(inner, logger).Discover(context.Background(), "https://shop.example.com")

		require.NoError(t, err)
		assert.Len(t, urls, 2)
		output := buf.String()
		assert.Contains(t, output, "msg=discover")
		assert.Contains(t, output, "url=https://shop.example.com")
		assert.Contains(t, output, "count=2")
	})

	t.Run("logs invalid start URL", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Discoverer{
			DiscoverFn: func(_ context.Context, _ string) ([]string, error) {
				return nil, prodfind.Errorf(prodfind.EINVALID, "start URL required")
			},
		}

		_, err := prodslog.NewLoggingDiscoverer(inner, logger).Discover(context.Background(), "")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "start URL required")
	})
}
