package slog

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/htmlmeta"
)

// Ensure LoggingExtractor implements htmlmeta.Extractor.
var _ htmlmeta.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging of each extraction.
type LoggingExtractor struct {
	next   htmlmeta.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next htmlmeta.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
// Documents that did not converge are logged as warnings.
func (e *LoggingExtractor) Extract(html []byte) (res *htmlmeta.Result, err error) {
	defer func(begin time.Time) {
		if err != nil {
			e.logger.Error("extract",
				"bytes", len(html),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		level := slog.LevelDebug
		if !res.Converged {
			level = slog.LevelWarn
		}
		e.logger.Log(context.Background(), level, "extract",
			"bytes", len(html),
			"chars", utf8.RuneCountInString(res.Text),
			"records", len(res.Metadata),
			"iterations", res.Iterations,
			"converged", res.Converged,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return e.next.Extract(html)
}
