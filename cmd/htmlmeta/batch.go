package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/htmlmeta"
	"github.com/fwojciec/htmlmeta/batch"
	"github.com/fwojciec/htmlmeta/bloom"
	"github.com/fwojciec/htmlmeta/fs"
	"github.com/fwojciec/htmlmeta/jsonl"
	hmslog "github.com/fwojciec/htmlmeta/slog"
	"github.com/fwojciec/htmlmeta/sqlite"
)

// dedupeCapacity sizes the bloom filter used by --dedupe.
const (
	dedupeCapacity = 1_000_000
	dedupeFPRate   = 0.001
)

// closeFunc adapts a function to io.Closer.
type closeFunc func() error

func (f closeFunc) Close() error { return f() }

var nopCloser = closeFunc(func() error { return nil })

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	destinations := 0
	for _, d := range []string{c.Out, c.DB, c.Dir} {
		if d != "" {
			destinations++
		}
	}
	if destinations != 1 {
		return htmlmeta.Errorf(htmlmeta.EINVALID, "exactly one of --out, --db or --dir is required")
	}

	p := &batch.Processor{
		Extractor:   deps.Extractor,
		OpenSource:  c.openSource,
		Concurrency: c.Concurrency,
		Logger:      deps.Logger,
	}
	if c.Dedupe {
		p.Dedupe = bloom.NewFilter(dedupeCapacity, dedupeFPRate)
	}

	switch {
	case c.DB != "":
		db := sqlite.NewDB(c.DB)
		if err := db.Open(); err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		var w htmlmeta.DocumentWriter = sqlite.NewDocumentService(db)
		if deps.Logger != nil {
			w = hmslog.NewLoggingDocumentWriter(w, deps.Logger)
		}
		p.CreateSink = func(string) (htmlmeta.DocumentWriter, io.Closer, error) {
			return w, nopCloser, nil
		}
	case c.Dir != "":
		var w htmlmeta.DocumentWriter = fs.NewWriter(c.Dir)
		if deps.Logger != nil {
			w = hmslog.NewLoggingDocumentWriter(w, deps.Logger)
		}
		p.CreateSink = func(string) (htmlmeta.DocumentWriter, io.Closer, error) {
			return w, nopCloser, nil
		}
	default:
		if err := os.MkdirAll(c.Out, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		p.CreateSink = c.createFileSink(deps)
	}

	res, err := p.Process(deps.Ctx, c.Files, func(e batch.ProgressEvent) {
		switch e.Type {
		case batch.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %s: %d documents, %d skipped, %d failed\n",
				e.Completed, e.Total, e.File, e.Documents, e.Skipped, e.Failed)
			if e.LastFailure != nil {
				fmt.Fprintf(deps.Stderr, "last failure in %s: %s\n", e.File, htmlmeta.ErrorMessage(e.LastFailure))
			}
		case batch.ProgressFailed:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %s: %v\n", e.Completed, e.Total, e.File, e.Error)
		}
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Processed %d files: %d documents, %d skipped, %d failed", res.Files, res.Documents, res.Skipped, res.Failed)
	if res.NotConverged > 0 {
		fmt.Fprintf(deps.Stdout, ", %d not converged", res.NotConverged)
	}
	fmt.Fprintln(deps.Stdout)

	if res.FailedFiles > 0 {
		return fmt.Errorf("%d of %d files failed", res.FailedFiles, len(c.Files))
	}
	return nil
}

func (c *BatchCmd) openSource(path string) (htmlmeta.SourceReader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	r, err := jsonl.NewReader(f, jsonl.ReaderOptions{
		HTMLField: c.HTMLField,
		IDField:   c.IDField,
		URLField:  c.URLField,
	})
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return r, closeFunc(func() error {
		return errors.Join(r.Close(), f.Close())
	}), nil
}

// createFileSink writes the documents of each input to a gzip-compressed
// file of the same base name in the output directory.
func (c *BatchCmd) createFileSink(deps *Dependencies) batch.SinkCreator {
	return func(path string) (htmlmeta.DocumentWriter, io.Closer, error) {
		name := strings.TrimSuffix(filepath.Base(path), ".gz")
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".jsonl.gz"

		f, err := os.Create(filepath.Join(c.Out, name))
		if err != nil {
			return nil, nil, err
		}
		jw := jsonl.NewWriter(f, true)

		var w htmlmeta.DocumentWriter = jw
		if deps.Logger != nil {
			w = hmslog.NewLoggingDocumentWriter(w, deps.Logger)
		}
		return w, closeFunc(func() error {
			return errors.Join(jw.Close(), f.Close())
		}), nil
	}
}
