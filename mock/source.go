package mock

import (
	"context"

	"github.com/fwojciec/htmlmeta"
)

var _ htmlmeta.SourceReader = (*SourceReader)(nil)

// SourceReader is a mock implementation of htmlmeta.SourceReader.
type SourceReader struct {
	ReadFn func(ctx context.Context) (*htmlmeta.Source, error)
}

func (r *SourceReader) Read(ctx context.Context) (*htmlmeta.Source, error) {
	return r.ReadFn(ctx)
}
