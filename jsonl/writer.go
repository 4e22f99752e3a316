package jsonl

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/htmlmeta"
)

// Ensure Writer implements htmlmeta.DocumentWriter at compile time.
var _ htmlmeta.DocumentWriter = (*Writer)(nil)

// Writer writes one document per line.
type Writer struct {
	gz  *gzip.Writer
	enc *json.Encoder
}

// NewWriter returns a Writer over w, gzip-compressing the output when
// compress is set. Close must be called to flush compressed output.
func NewWriter(w io.Writer, compress bool) *Writer {
	out := &Writer{}
	if compress {
		out.gz = gzip.NewWriter(w)
		w = out.gz
	}
	out.enc = json.NewEncoder(w)
	out.enc.SetEscapeHTML(false)
	return out
}

// WriteDocument writes doc as a single JSON line.
func (w *Writer) WriteDocument(ctx context.Context, doc *htmlmeta.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := w.enc.Encode(doc); err != nil {
		return fmt.Errorf("write document %s: %w", doc.ID, err)
	}
	return nil
}

// Close flushes compressed output. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.gz != nil {
		return w.gz.Close()
	}
	return nil
}
