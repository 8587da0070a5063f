package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/fwojciec/repscan"
)

// Ensure Analyzer implements repscan.Analyzer at compile time.
var _ repscan.Analyzer = (*Analyzer)(nil)

// Analyzer extracts, classifies and persists a single URL.
type Analyzer struct {
	Extractor  repscan.Extractor
	Classifier repscan.Classifier
	Sink       repscan.ResultSink

	// Triggers, if set, finds policy triggers in the extracted text.
	Triggers repscan.TriggerMatcher

	// History, if set, records every completed analysis.
	History repscan.AnalysisService

	Logger *slog.Logger
}

// Analyze runs the full pipeline for rawURL.
//
// A classification that was produced but could not be persisted is still
// returned; the failure is reported in Analysis.PersistWarning.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (*repscan.Analysis, error) {
	url, err := repscan.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	extracted, err := a.Extractor.Extract(ctx, url)
	if err != nil {
		return nil, err
	}

	req := &repscan.ClassifyRequest{URL: url, Text: extracted.Text}
	if a.Triggers != nil {
		req.Triggers = a.Triggers.Match(extracted.Text)
	}

	classification, err := a.Classifier.Classify(ctx, req)
	if err != nil {
		a.logger().Error("classification failed", "url", url, "err", err)
		if repscan.ErrorCode(err) != repscan.EUNAVAILABLE {
			return nil, repscan.Errorf(repscan.EUNAVAILABLE, "classification unavailable: %v", err)
		}
		return nil, err
	}
	classification = strings.TrimSpace(classification)
	if classification == "" {
		return nil, repscan.Errorf(repscan.EUNAVAILABLE, "classifier returned an empty analysis")
	}

	analysis := &repscan.Analysis{
		URL:            url,
		Host:           repscan.HostOf(url),
		Strategy:       extracted.Strategy,
		Classification: classification,
		Text:           extracted.Text,
	}

	path, err := a.Sink.Persist(ctx, url, classification)
	if err != nil {
		a.logger().Warn("persist failed", "url", url, "err", err)
		analysis.PersistWarning = err
	} else {
		analysis.Path = path
	}

	if a.History != nil {
		if err := a.History.CreateAnalysis(ctx, analysis); err != nil {
			a.logger().Warn("history record failed", "url", url, "err", err)
			analysis.PersistWarning = errors.Join(analysis.PersistWarning, err)
		}
	}

	a.logger().Info("analysed",
		"url", url,
		"strategy", analysis.Strategy,
		"triggers", len(req.Triggers),
		"path", analysis.Path,
	)
	return analysis, nil
}

func (a *Analyzer) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.DiscardHandler)
}
