package crawl

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ResultHash returns a digest of a product URL list. Equal lists hash
// equally, so a job's hash changes only when its products change.
func ResultHash(urls []string) string {
	h := xxhash.New()
	for _, u := range urls {
		_, _ = h.WriteString(u)
		_, _ = h.WriteString("\n")
	}
	return fmt.Sprintf("%x", h.Sum64())
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatProducts renders urls one per line with a trailing newline.
// An empty list renders as the empty string.
func FormatProducts(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	return strings.Join(urls, "\n") + "\n"
}
