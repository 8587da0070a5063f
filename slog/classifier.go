package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/repscan"
)

// Ensure LoggingClassifier implements repscan.Classifier at compile time.
var _ repscan.Classifier = (*LoggingClassifier)(nil)

// LoggingClassifier wraps a Classifier and logs every request.
type LoggingClassifier struct {
	next   repscan.Classifier
	logger *slog.Logger
}

// NewLoggingClassifier creates a new LoggingClassifier.
func NewLoggingClassifier(next repscan.Classifier, logger *slog.Logger) *LoggingClassifier {
	return &LoggingClassifier{next: next, logger: logger}
}

// Classify delegates to the wrapped classifier.
func (c *LoggingClassifier) Classify(ctx context.Context, req *repscan.ClassifyRequest) (answer string, err error) {
	defer func(begin time.Time) {
		c.logger.Info("classify",
			"url", req.URL,
			"chars", repscan.TextLength(req.Text),
			"triggers", len(req.Triggers),
			"answer_chars", repscan.TextLength(answer),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Classify(ctx, req)
}
