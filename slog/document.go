package slog

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/htmlmeta"
)

// Ensure LoggingDocumentWriter implements htmlmeta.DocumentWriter.
var _ htmlmeta.DocumentWriter = (*LoggingDocumentWriter)(nil)

// LoggingDocumentWriter wraps a DocumentWriter with debug logging.
type LoggingDocumentWriter struct {
	next   htmlmeta.DocumentWriter
	logger *slog.Logger
}

// NewLoggingDocumentWriter creates a new LoggingDocumentWriter.
func NewLoggingDocumentWriter(next htmlmeta.DocumentWriter, logger *slog.Logger) *LoggingDocumentWriter {
	return &LoggingDocumentWriter{next: next, logger: logger}
}

// WriteDocument delegates to the wrapped writer and logs the operation.
func (w *LoggingDocumentWriter) WriteDocument(ctx context.Context, doc *htmlmeta.Document) (err error) {
	defer func(begin time.Time) {
		w.logger.DebugContext(ctx, "write document",
			"id", doc.ID,
			"chars", utf8.RuneCountInString(doc.Text),
			"records", len(doc.Metadata),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteDocument(ctx, doc)
}
