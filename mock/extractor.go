package mock

import (
	"context"

	"github.com/fwojciec/repscan"
)

var _ repscan.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of repscan.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, url string) (*repscan.ExtractedText, error)
}

func (e *Extractor) Extract(ctx context.Context, url string) (*repscan.ExtractedText, error) {
	return e.ExtractFn(ctx, url)
}
