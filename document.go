package htmlmeta

import (
	"context"
	"time"
)

// Source is a raw HTML document read from an input corpus.
type Source struct {
	ID   string `json:"id"`
	URL  string `json:"url,omitempty"`
	HTML string `json:"-"`
}

// Document is the extracted form of a Source.
type Document struct {
	ID          string      `json:"id"`
	URL         string      `json:"url,omitempty"`
	Text        string      `json:"text"`
	Metadata    []*Metadata `json:"metadata"`
	ContentHash string      `json:"-"`
	Converged   bool        `json:"-"`
	CreatedAt   time.Time   `json:"-"`
}

// NewDocument builds the Document for a source from its extraction result.
func NewDocument(src *Source, res *Result) *Document {
	return &Document{
		ID:        src.ID,
		URL:       src.URL,
		Text:      res.Text,
		Metadata:  res.Metadata,
		Converged: res.Converged,
	}
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.ID == "" {
		return Errorf(EINVALID, "document ID required")
	}
	for i, m := range d.Metadata {
		if m.CharStartIdx < 0 {
			return Errorf(EINVALID, "metadata %d: negative start index", i)
		}
		if m.CharEndIdx != nil && *m.CharEndIdx < m.CharStartIdx {
			return Errorf(EINVALID, "metadata %d: end index before start index", i)
		}
	}
	return nil
}

// SourceReader reads raw documents one at a time.
type SourceReader interface {
	// Read returns the next source, or io.EOF when the input is exhausted.
	Read(ctx context.Context) (*Source, error)
}

// DocumentWriter writes extracted documents to storage.
type DocumentWriter interface {
	WriteDocument(ctx context.Context, doc *Document) error
}

// DocumentService represents a service for managing extracted documents.
type DocumentService interface {
	// CreateDocument stores a new document and its metadata records.
	CreateDocument(ctx context.Context, doc *Document) error

	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if document does not exist.
	FindDocumentByID(ctx context.Context, id string) (*Document, error)

	// FindDocuments retrieves documents matching the filter.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)
}

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	ID  *string `json:"id"`
	URL *string `json:"url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
