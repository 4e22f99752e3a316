// Package jsonl reads HTML sources from and writes extracted documents to
// JSON-lines files, optionally gzip-compressed.
package jsonl

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fwojciec/htmlmeta"
	"github.com/tidwall/gjson"
)

// Default field paths, matching the Natural Questions simplified layout.
const (
	DefaultHTMLField = "document_html"
	DefaultIDField   = "example_id"
	DefaultURLField  = "document_url"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Ensure Reader implements htmlmeta.SourceReader at compile time.
var _ htmlmeta.SourceReader = (*Reader)(nil)

// ReaderOptions names the fields holding each part of a source. Fields are
// gjson paths, so nested values can be addressed with dots.
type ReaderOptions struct {
	HTMLField string
	IDField   string
	URLField  string
}

func (o *ReaderOptions) setDefaults() {
	if o.HTMLField == "" {
		o.HTMLField = DefaultHTMLField
	}
	if o.IDField == "" {
		o.IDField = DefaultIDField
	}
	if o.URLField == "" {
		o.URLField = DefaultURLField
	}
}

// Reader reads one source per line.
type Reader struct {
	r    *bufio.Reader
	gz   *gzip.Reader
	opts ReaderOptions
	line int
}

// NewReader returns a Reader over r. Gzip input is recognized by its magic
// bytes and decompressed transparently.
func NewReader(r io.Reader, opts ReaderOptions) (*Reader, error) {
	opts.setDefaults()
	br := bufio.NewReader(r)

	rd := &Reader{r: br, opts: opts}
	magic, err := br.Peek(len(gzipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if bytes.Equal(magic, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, htmlmeta.Errorf(htmlmeta.EINVALID, "invalid gzip stream: %v", err)
		}
		rd.gz = gz
		rd.r = bufio.NewReader(gz)
	}
	return rd, nil
}

// Read returns the next source. Blank lines are skipped. It returns io.EOF
// once the input is exhausted.
func (r *Reader) Read(ctx context.Context) (*htmlmeta.Source, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, err := r.r.ReadBytes('\n')
		if len(line) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read line %d: %w", r.line+1, err)
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read line %d: %w", r.line+1, err)
		}
		r.line++

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		return r.parse(line)
	}
}

func (r *Reader) parse(line []byte) (*htmlmeta.Source, error) {
	if !gjson.ValidBytes(line) {
		return nil, htmlmeta.Errorf(htmlmeta.EINVALID, "line %d: malformed JSON", r.line)
	}

	html := gjson.GetBytes(line, r.opts.HTMLField)
	if html.Type != gjson.String {
		return nil, htmlmeta.Errorf(htmlmeta.EINVALID, "line %d: missing string field %q", r.line, r.opts.HTMLField)
	}

	src := &htmlmeta.Source{HTML: html.String()}
	switch id := gjson.GetBytes(line, r.opts.IDField); id.Type {
	case gjson.String:
		src.ID = id.String()
	case gjson.Number:
		// Raw keeps integer IDs wider than a float64 mantissa intact.
		src.ID = id.Raw
	}
	if url := gjson.GetBytes(line, r.opts.URLField); url.Type == gjson.String {
		src.URL = url.String()
	}
	return src, nil
}

// Close releases the decompressor, if any. It does not close the
// underlying reader.
func (r *Reader) Close() error {
	if r.gz != nil {
		return r.gz.Close()
	}
	return nil
}
