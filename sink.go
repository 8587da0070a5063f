package repscan

import "context"

// ResultSink persists classification results.
type ResultSink interface {
	// Persist writes the classification for url to a new location and
	// returns it. Existing results are never overwritten.
	Persist(ctx context.Context, url, classification string) (path string, err error)
}
