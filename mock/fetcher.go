package mock

import (
	"context"

	"github.com/fwojciec/prodfind"
)

var _ prodfind.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of prodfind.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*prodfind.Resource, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*prodfind.Resource, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
