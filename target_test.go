package prodfind_test

import (
	"testing"

	"github.com/fwojciec/prodfind"
	"github.com/fwojciec/prodfind/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCrawlTarget(t *testing.T) {
	t.Parallel()

	ids := &mock.SiteIdentifier{
		IdentifyFn: func(rawURL string) prodfind.SiteID {
			return "example.co.uk"
		},
	}

	t.Run("derives scheme host and site", func(t *testing.T) {
		t.Parallel()

		target, err := prodfind.NewCrawlTarget("https://www.Shop.Example.co.uk/women?page=2", ids)

		require.NoError(t, err)
		assert.Equal(t, "https://www.shop.example.co.uk/women?page=2", target.StartURL)
		assert.Equal(t, "https", target.Scheme)
		assert.Equal(t, "www.shop.example.co.uk", target.Host)
		assert.Equal(t, prodfind.SiteID("example.co.uk"), target.Site)
		assert.Equal(t, "https://www.shop.example.co.uk", target.Origin())
	})

	t.Run("normalizes empty path and drops fragment", func(t *testing.T) {
		t.Parallel()

		target, err := prodfind.NewCrawlTarget("http://example.co.uk#top", ids)

		require.NoError(t, err)
		assert.Equal(t, "http://example.co.uk/", target.StartURL)
	})

	t.Run("keeps port in host", func(t *testing.T) {
		t.Parallel()

		target, err := prodfind.NewCrawlTarget("http://127.0.0.1:8080/", ids)

		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:8080", target.Host)
	})

	for _, raw := range []string{"", "   ", "not a url", "/relative/path", "ftp://example.com/", "https://", "://missing-scheme"} {
		t.Run("rejects "+raw, func(t *testing.T) {
			t.Parallel()

			_, err := prodfind.NewCrawlTarget(raw, ids)

			require.Error(t, err)
			assert.Equal(t, prodfind.EINVALID, prodfind.ErrorCode(err))
		})
	}
}

func TestCrawlTarget_SameHost(t *testing.T) {
	t.Parallel()

	target := &prodfind.CrawlTarget{Scheme: "https", Host: "www.example.com"}

	assert.True(t, target.SameHost("https://www.example.com/a"))
	assert.True(t, target.SameHost("http://WWW.EXAMPLE.COM/b"))
	assert.False(t, target.SameHost("https://shop.example.com/a"))
	assert.False(t, target.SameHost("https://example.com/a"))
	assert.False(t, target.SameHost("https://www.example.com:8443/a"))
}
