package mock

import (
	"context"

	"github.com/fwojciec/repscan"
)

var _ repscan.ResultSink = (*ResultSink)(nil)

// ResultSink is a mock implementation of repscan.ResultSink.
type ResultSink struct {
	PersistFn func(ctx context.Context, url, classification string) (string, error)
}

func (s *ResultSink) Persist(ctx context.Context, url, classification string) (string, error) {
	return s.PersistFn(ctx, url, classification)
}
