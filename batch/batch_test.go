package batch_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/htmlmeta"
	"github.com/fwojciec/htmlmeta/batch"
	"github.com/fwojciec/htmlmeta/bloom"
	"github.com/fwojciec/htmlmeta/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// sources returns an opener serving the given HTML documents per file.
func sources(files map[string][]string) batch.SourceOpener {
	return func(path string) (htmlmeta.SourceReader, io.Closer, error) {
		docs, ok := files[path]
		if !ok {
			return nil, nil, errors.New("no such file")
		}
		i := 0
		return &mock.SourceReader{
			ReadFn: func(ctx context.Context) (*htmlmeta.Source, error) {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				if i == len(docs) {
					return nil, io.EOF
				}
				i++
				return &htmlmeta.Source{HTML: docs[i-1]}, nil
			},
		}, nopCloser{}, nil
	}
}

// memorySink collects written documents across files.
type memorySink struct {
	mu   sync.Mutex
	docs []*htmlmeta.Document
}

func (s *memorySink) create(string) (htmlmeta.DocumentWriter, io.Closer, error) {
	return &mock.DocumentWriter{
		WriteDocumentFn: func(_ context.Context, doc *htmlmeta.Document) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.docs = append(s.docs, doc)
			return nil
		},
	}, nopCloser{}, nil
}

func (s *memorySink) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, d := range s.docs {
		ids = append(ids, d.ID)
	}
	sort.Strings(ids)
	return ids
}

func upperExtractor() *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(html []byte) (*htmlmeta.Result, error) {
			if strings.Contains(string(html), "bad") {
				return nil, htmlmeta.Errorf(htmlmeta.ETOODEEP, "too deep")
			}
			return &htmlmeta.Result{Text: strings.ToUpper(string(html)), Converged: !strings.Contains(string(html), "slow")}, nil
		},
	}
}

func TestProcessor_Process(t *testing.T) {
	t.Parallel()

	t.Run("extracts every document of every file", func(t *testing.T) {
		t.Parallel()

		sink := &memorySink{}
		p := &batch.Processor{
			Extractor:   upperExtractor(),
			OpenSource:  sources(map[string][]string{"a.jsonl": {"a1", "a2"}, "dir/b.jsonl": {"b1"}}),
			CreateSink:  sink.create,
			Concurrency: 2,
		}

		var events []batch.ProgressEvent
		res, err := p.Process(context.Background(), []string{"a.jsonl", "dir/b.jsonl"}, func(e batch.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		assert.Equal(t, &batch.Result{Files: 2, Documents: 3}, res)
		assert.Equal(t, []string{"a.jsonl#1", "a.jsonl#2", "b.jsonl#1"}, sink.ids())

		require.Len(t, events, 4)
		assert.Equal(t, batch.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Total)
		assert.Equal(t, batch.ProgressCompleted, events[1].Type)
		assert.Equal(t, batch.ProgressCompleted, events[2].Type)
		assert.Equal(t, batch.ProgressFinished, events[3].Type)
	})

	t.Run("counts extraction failures and keeps going", func(t *testing.T) {
		t.Parallel()

		sink := &memorySink{}
		p := &batch.Processor{
			Extractor:  upperExtractor(),
			OpenSource: sources(map[string][]string{"a": {"bad", "ok", "slow"}}),
			CreateSink: sink.create,
		}

		res, err := p.Process(context.Background(), []string{"a"}, nil)

		require.NoError(t, err)
		assert.Equal(t, &batch.Result{Files: 1, Documents: 2, Failed: 1, NotConverged: 1}, res)
		assert.Equal(t, []string{"a#2", "a#3"}, sink.ids())
	})

	t.Run("reports why documents failed", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		sink := &memorySink{}
		p := &batch.Processor{
			Extractor:  upperExtractor(),
			OpenSource: sources(map[string][]string{"a": {"ok", "bad"}}),
			CreateSink: sink.create,
			Logger:     slog.New(slog.NewTextHandler(&logs, nil)),
		}

		var completed []batch.ProgressEvent
		_, err := p.Process(context.Background(), []string{"a"}, func(e batch.ProgressEvent) {
			if e.Type == batch.ProgressCompleted {
				completed = append(completed, e)
			}
		})

		require.NoError(t, err)
		require.Len(t, completed, 1)
		require.Error(t, completed[0].LastFailure)
		assert.Equal(t, htmlmeta.ETOODEEP, htmlmeta.ErrorCode(completed[0].LastFailure))
		assert.Contains(t, completed[0].LastFailure.Error(), "a#2")
		assert.Contains(t, logs.String(), "extraction failed")
		assert.Contains(t, logs.String(), "id=a#2")
		assert.Contains(t, logs.String(), "too deep")
	})

	t.Run("skips duplicate documents", func(t *testing.T) {
		t.Parallel()

		sink := &memorySink{}
		p := &batch.Processor{
			Extractor:   upperExtractor(),
			OpenSource:  sources(map[string][]string{"a": {"x", "y"}, "b": {"x", "z"}}),
			CreateSink:  sink.create,
			Concurrency: 1,
			Dedupe:      bloom.NewFilter(100, 0.001),
		}

		res, err := p.Process(context.Background(), []string{"a", "b"}, nil)

		require.NoError(t, err)
		assert.Equal(t, 3, res.Documents)
		assert.Equal(t, 1, res.Skipped)
	})

	t.Run("reports files that cannot be read", func(t *testing.T) {
		t.Parallel()

		sink := &memorySink{}
		p := &batch.Processor{
			Extractor:  upperExtractor(),
			OpenSource: sources(map[string][]string{"a": {"x"}}),
			CreateSink: sink.create,
		}

		var failed []batch.ProgressEvent
		res, err := p.Process(context.Background(), []string{"a", "missing"}, func(e batch.ProgressEvent) {
			if e.Type == batch.ProgressFailed {
				failed = append(failed, e)
			}
		})

		require.NoError(t, err)
		assert.Equal(t, 1, res.Files)
		assert.Equal(t, 1, res.FailedFiles)
		require.Len(t, failed, 1)
		assert.Equal(t, "missing", failed[0].File)
		assert.ErrorContains(t, failed[0].Error, "no such file")
	})

	t.Run("aborts a file when writing fails", func(t *testing.T) {
		t.Parallel()

		p := &batch.Processor{
			Extractor:  upperExtractor(),
			OpenSource: sources(map[string][]string{"a": {"x", "y"}}),
			CreateSink: func(string) (htmlmeta.DocumentWriter, io.Closer, error) {
				return &mock.DocumentWriter{
					WriteDocumentFn: func(context.Context, *htmlmeta.Document) error {
						return errors.New("disk full")
					},
				}, nopCloser{}, nil
			},
		}

		res, err := p.Process(context.Background(), []string{"a"}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, res.FailedFiles)
		assert.Zero(t, res.Documents)
	})

	t.Run("returns the context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		sink := &memorySink{}
		p := &batch.Processor{
			Extractor:  upperExtractor(),
			OpenSource: sources(map[string][]string{"a": {"x"}}),
			CreateSink: sink.create,
		}

		_, err := p.Process(ctx, []string{"a"}, nil)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, sink.ids())
	})
}
