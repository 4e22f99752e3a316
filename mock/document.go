package mock

import (
	"context"

	"github.com/fwojciec/htmlmeta"
)

var _ htmlmeta.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of htmlmeta.DocumentService.
type DocumentService struct {
	CreateDocumentFn   func(ctx context.Context, doc *htmlmeta.Document) error
	FindDocumentByIDFn func(ctx context.Context, id string) (*htmlmeta.Document, error)
	FindDocumentsFn    func(ctx context.Context, filter htmlmeta.DocumentFilter) ([]*htmlmeta.Document, error)
}

func (s *DocumentService) CreateDocument(ctx context.Context, doc *htmlmeta.Document) error {
	return s.CreateDocumentFn(ctx, doc)
}

func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*htmlmeta.Document, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentService) FindDocuments(ctx context.Context, filter htmlmeta.DocumentFilter) ([]*htmlmeta.Document, error) {
	return s.FindDocumentsFn(ctx, filter)
}

var _ htmlmeta.DocumentWriter = (*DocumentWriter)(nil)

// DocumentWriter is a mock implementation of htmlmeta.DocumentWriter.
type DocumentWriter struct {
	WriteDocumentFn func(ctx context.Context, doc *htmlmeta.Document) error
}

func (w *DocumentWriter) WriteDocument(ctx context.Context, doc *htmlmeta.Document) error {
	return w.WriteDocumentFn(ctx, doc)
}
