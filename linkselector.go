package prodfind

// LinkExtractor extracts outgoing links from HTML.
type LinkExtractor interface {
	// ExtractLinks parses html and returns the absolute http(s) URL of
	// every anchor, resolved against baseURL with fragments removed.
	// Duplicates are removed; document order is preserved.
	ExtractLinks(html string, baseURL string) ([]string, error)
}
