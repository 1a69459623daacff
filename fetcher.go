package prodfind

import (
	"context"
	"mime"
	"strings"
)

// Resource is the body and metadata of a successfully fetched URL.
type Resource struct {
	URL         string // final URL after redirects
	StatusCode  int
	ContentType string
	Body        []byte
}

// mediaType returns the lowercased media type of the Content-Type header.
func (r *Resource) mediaType() string {
	mt, _, err := mime.ParseMediaType(r.ContentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(r.ContentType, ";")[0]))
	}
	return mt
}

// IsHTML reports whether the resource was served as text/html.
func (r *Resource) IsHTML() bool {
	return r.mediaType() == "text/html"
}

// IsText reports whether the resource was served as a text/* media type.
// A missing Content-Type header is treated as text.
func (r *Resource) IsText() bool {
	if r.ContentType == "" {
		return true
	}
	return strings.HasPrefix(r.mediaType(), "text/")
}

// Fetcher retrieves resources over the network.
type Fetcher interface {
	// Fetch issues a GET for url and returns the response body.
	// Any status other than 200 OK is returned as an error.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Resource, error)

	// Close releases idle connections.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
