package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/repscan"
)

// Ensure LoggingSink implements repscan.ResultSink at compile time.
var _ repscan.ResultSink = (*LoggingSink)(nil)

// LoggingSink wraps a ResultSink and logs every write.
type LoggingSink struct {
	next   repscan.ResultSink
	logger *slog.Logger
}

// NewLoggingSink creates a new LoggingSink.
func NewLoggingSink(next repscan.ResultSink, logger *slog.Logger) *LoggingSink {
	return &LoggingSink{next: next, logger: logger}
}

// Persist delegates to the wrapped sink.
func (s *LoggingSink) Persist(ctx context.Context, url, classification string) (path string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("persist",
			"url", url,
			"path", path,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Persist(ctx, url, classification)
}
