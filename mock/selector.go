package mock

import "github.com/fwojciec/repscan"

var _ repscan.Selector = (*Selector)(nil)

// Selector is a mock implementation of repscan.Selector.
type Selector struct {
	SelectFn func(doc *repscan.RawDocument) string
}

func (s *Selector) Select(doc *repscan.RawDocument) string {
	return s.SelectFn(doc)
}
