package mock

import (
	"context"

	"github.com/fwojciec/repscan"
)

var _ repscan.Classifier = (*Classifier)(nil)

// Classifier is a mock implementation of repscan.Classifier.
type Classifier struct {
	ClassifyFn func(ctx context.Context, req *repscan.ClassifyRequest) (string, error)
}

func (c *Classifier) Classify(ctx context.Context, req *repscan.ClassifyRequest) (string, error) {
	return c.ClassifyFn(ctx, req)
}

var _ repscan.TriggerMatcher = (*TriggerMatcher)(nil)

// TriggerMatcher is a mock implementation of repscan.TriggerMatcher.
type TriggerMatcher struct {
	MatchFn func(text string) []repscan.Trigger
}

func (m *TriggerMatcher) Match(text string) []repscan.Trigger {
	return m.MatchFn(text)
}
