package repscan

import (
	"context"
	"time"
)

// Analysis is the outcome of analysing a single URL.
type Analysis struct {
	ID             string    `json:"id"`
	URL            string    `json:"url"`
	Host           string    `json:"host"`
	Strategy       string    `json:"strategy"`
	TextHash       string    `json:"textHash"`
	Classification string    `json:"classification"`
	Path           string    `json:"path"`
	CreatedAt      time.Time `json:"createdAt"`

	// Text is the extracted content that was classified. It is not stored.
	Text string `json:"-"`

	// PersistWarning is set when the result could not be persisted.
	// The analysis itself is still valid.
	PersistWarning error `json:"-"`
}

// Validate returns an error if the analysis contains invalid fields.
func (a *Analysis) Validate() error {
	if a.URL == "" {
		return Errorf(EINVALID, "analysis URL required")
	}
	if a.Classification == "" {
		return Errorf(EINVALID, "analysis classification required")
	}
	return nil
}

// Analyzer is the entry point used by front ends.
type Analyzer interface {
	// Analyze extracts, classifies and persists the page at url.
	// Returns EINVALID for malformed URLs, EEXHAUSTED when no content could
	// be extracted and EUNAVAILABLE when classification failed.
	Analyze(ctx context.Context, url string) (*Analysis, error)
}

// AnalysisService records completed analyses. Records are an audit log and
// are never consulted before analysing a URL.
type AnalysisService interface {
	// CreateAnalysis stores a new analysis, assigning its ID and CreatedAt.
	CreateAnalysis(ctx context.Context, a *Analysis) error

	// FindAnalyses retrieves analyses matching the filter, newest first.
	FindAnalyses(ctx context.Context, filter AnalysisFilter) ([]*Analysis, error)
}

// AnalysisFilter represents a filter for FindAnalyses.
type AnalysisFilter struct {
	Host *string `json:"host"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
