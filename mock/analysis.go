package mock

import (
	"context"

	"github.com/fwojciec/repscan"
)

var _ repscan.Analyzer = (*Analyzer)(nil)

// Analyzer is a mock implementation of repscan.Analyzer.
type Analyzer struct {
	AnalyzeFn func(ctx context.Context, url string) (*repscan.Analysis, error)
}

func (a *Analyzer) Analyze(ctx context.Context, url string) (*repscan.Analysis, error) {
	return a.AnalyzeFn(ctx, url)
}

var _ repscan.AnalysisService = (*AnalysisService)(nil)

// AnalysisService is a mock implementation of repscan.AnalysisService.
type AnalysisService struct {
	CreateAnalysisFn func(ctx context.Context, a *repscan.Analysis) error
	FindAnalysesFn   func(ctx context.Context, filter repscan.AnalysisFilter) ([]*repscan.Analysis, error)
}

func (s *AnalysisService) CreateAnalysis(ctx context.Context, a *repscan.Analysis) error {
	return s.CreateAnalysisFn(ctx, a)
}

func (s *AnalysisService) FindAnalyses(ctx context.Context, filter repscan.AnalysisFilter) ([]*repscan.Analysis, error) {
	return s.FindAnalysesFn(ctx, filter)
}
