package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/htmlmeta"
	"github.com/fwojciec/htmlmeta/mock"
	hmslog "github.com/fwojciec/htmlmeta/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingDocumentWriter_WriteDocument(t *testing.T) {
	t.Parallel()

	t.Run("logs document id and record count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.DocumentWriter{
			WriteDocumentFn: func(ctx context.Context, doc *htmlmeta.Document) error {
				return nil
			},
		}

		w := hmslog.NewLoggingDocumentWriter(inner, logger)
		err := w.WriteDocument(context.Background(), &htmlmeta.Document{
			ID:       "42",
			Text:     "abc",
			Metadata: []*htmlmeta.Metadata{{Value: "body"}},
		})

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "write document")
		assert.Contains(t, output, "id=42")
		assert.Contains(t, output, "chars=3")
		assert.Contains(t, output, "records=1")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.DocumentWriter{
			WriteDocumentFn: func(ctx context.Context, doc *htmlmeta.Document) error {
				return errors.New("disk full")
			},
		}

		err := hmslog.NewLoggingDocumentWriter(inner, logger).WriteDocument(context.Background(), &htmlmeta.Document{ID: "1"})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"disk full\"")
	})
}
