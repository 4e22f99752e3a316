// Package batch drives extraction over corpora of JSON-lines files: every
// file is read, each document extracted and the result written to a sink.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/fwojciec/htmlmeta"
	"github.com/fwojciec/htmlmeta/bloom"
	"golang.org/x/sync/errgroup"
)

// SourceOpener opens the input file at path.
type SourceOpener func(path string) (htmlmeta.SourceReader, io.Closer, error)

// SinkCreator returns the writer receiving the documents of the input file
// at path. Sinks may be shared between files.
type SinkCreator func(path string) (htmlmeta.DocumentWriter, io.Closer, error)

// Processor extracts every document of a set of input files. Files are
// processed concurrently; the documents of one file are processed in order.
type Processor struct {
	Extractor   htmlmeta.Extractor
	OpenSource  SourceOpener
	CreateSink  SinkCreator
	Concurrency int

	// Dedupe, when set, skips documents whose HTML was already seen.
	Dedupe *bloom.Filter

	// Logger receives a warning for every document that fails extraction.
	Logger *slog.Logger
}

// Result holds the outcome of a batch run.
type Result struct {
	Files       int
	FailedFiles int
	Documents   int
	Skipped     int
	Failed      int

	// NotConverged counts documents whose cleaning hit the iteration cap.
	NotConverged int
}

// ProgressEvent reports progress during a batch run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	File      string
	Documents int
	Skipped   int
	Failed    int
	Error     error

	// LastFailure is the most recent extraction error of the file.
	LastFailure error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress. It is always
// called from the goroutine running Process.
type ProgressFunc func(event ProgressEvent)

// fileResult holds the outcome of processing a single file.
type fileResult struct {
	file         string
	documents    int
	skipped      int
	failed       int
	notConverged int
	lastFailure  error
	err          error
}

// Process extracts the documents of every file in paths. Extraction
// failures are counted and skipped; read and write failures abort the file
// they happen in. Only cancellation of ctx fails the run as a whole.
func (p *Processor) Process(ctx context.Context, paths []string, progress ProgressFunc) (*Result, error) {
	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	total := len(paths)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan fileResult, total)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, path := range paths {
			g.Go(func() error {
				resultCh <- p.processFile(gctx, path)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	res := &Result{}
	completed := 0
	for r := range resultCh {
		completed++
		res.Documents += r.documents
		res.Skipped += r.skipped
		res.Failed += r.failed
		res.NotConverged += r.notConverged

		event := ProgressEvent{
			Type:      ProgressCompleted,
			Completed: completed,
			Total:     total,
			File:      r.file,
			Documents: r.documents,
			Skipped:   r.skipped,
			Failed:    r.failed,

			LastFailure: r.lastFailure,
		}
		if r.err != nil {
			res.FailedFiles++
			event.Type = ProgressFailed
			event.Error = r.err
		} else {
			res.Files++
		}
		if progress != nil {
			progress(event)
		}
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}
	return res, nil
}

func (p *Processor) processFile(ctx context.Context, path string) (result fileResult) {
	result.file = path

	r, rc, err := p.OpenSource(path)
	if err != nil {
		result.err = fmt.Errorf("open %s: %w", path, err)
		return result
	}
	defer rc.Close()

	w, wc, err := p.CreateSink(path)
	if err != nil {
		result.err = fmt.Errorf("create sink for %s: %w", path, err)
		return result
	}
	defer func() {
		if err := wc.Close(); err != nil && result.err == nil {
			result.err = fmt.Errorf("close sink for %s: %w", path, err)
		}
	}()

	base := filepath.Base(path)
	for n := 1; ; n++ {
		src, err := r.Read(ctx)
		if errors.Is(err, io.EOF) {
			return result
		}
		if err != nil {
			result.err = fmt.Errorf("read %s: %w", path, err)
			return result
		}

		if p.Dedupe != nil && p.Dedupe.Seen([]byte(src.HTML)) {
			result.skipped++
			continue
		}
		if src.ID == "" {
			src.ID = fmt.Sprintf("%s#%d", base, n)
		}

		res, err := p.Extractor.Extract([]byte(src.HTML))
		if err != nil {
			result.failed++
			result.lastFailure = fmt.Errorf("extract %s: %w", src.ID, err)
			p.logger().Warn("extraction failed",
				"file", path,
				"id", src.ID,
				"code", htmlmeta.ErrorCode(err),
				"err", htmlmeta.ErrorMessage(err),
			)
			continue
		}
		if !res.Converged {
			result.notConverged++
		}

		if err := w.WriteDocument(ctx, htmlmeta.NewDocument(src, res)); err != nil {
			result.err = fmt.Errorf("write %s: %w", src.ID, err)
			return result
		}
		result.documents++
	}
}

func (p *Processor) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}
