package mock

import (
	"context"

	"github.com/fwojciec/repscan"
)

var _ repscan.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of repscan.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*repscan.RawDocument, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*repscan.RawDocument, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
