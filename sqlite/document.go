package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/htmlmeta"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ htmlmeta.DocumentService = (*DocumentService)(nil)
	_ htmlmeta.DocumentWriter  = (*DocumentService)(nil)
)

// DocumentService implements htmlmeta.DocumentService using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// CreateDocument stores a document and its metadata records in a single
// transaction. A document without an ID is assigned a random one.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *htmlmeta.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	doc.CreatedAt = time.Now().UTC()
	doc.ContentHash = hashContent(doc.Text)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE id = ?", doc.ID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return htmlmeta.Errorf(htmlmeta.ECONFLICT, "document %q already exists", doc.ID)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, url, text, content_hash, converged, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.URL, doc.Text, doc.ContentHash, doc.Converged, doc.CreatedAt.Format(time.RFC3339)); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO metadata (document_id, position, tag, attrs_json, char_start_idx, relative_start_pos, char_end_idx, relative_end_pos, self_closing)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, m := range doc.Metadata {
		attrs, err := json.Marshal(m.HTMLAttrs)
		if err != nil {
			return fmt.Errorf("failed to encode attributes: %w", err)
		}
		var end sql.NullInt64
		if m.CharEndIdx != nil {
			end = sql.NullInt64{Int64: int64(*m.CharEndIdx), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, doc.ID, i, m.Value, string(attrs),
			m.CharStartIdx, m.RelativeStartPos, end, m.RelativeEndPos, m.SelfClosing); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// WriteDocument implements htmlmeta.DocumentWriter.
func (s *DocumentService) WriteDocument(ctx context.Context, doc *htmlmeta.Document) error {
	return s.CreateDocument(ctx, doc)
}

// FindDocumentByID retrieves a document and its metadata by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*htmlmeta.Document, error) {
	docs, err := s.FindDocuments(ctx, htmlmeta.DocumentFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, htmlmeta.Errorf(htmlmeta.ENOTFOUND, "document not found")
	}
	return docs[0], nil
}

// FindDocuments retrieves documents matching the filter, oldest first.
func (s *DocumentService) FindDocuments(ctx context.Context, filter htmlmeta.DocumentFilter) ([]*htmlmeta.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, url, text, content_hash, converged, created_at FROM documents WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	query.WriteString(" ORDER BY created_at ASC, rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*htmlmeta.Document
	for rows.Next() {
		var doc htmlmeta.Document
		var createdAt string

		if err := rows.Scan(&doc.ID, &doc.URL, &doc.Text, &doc.ContentHash, &doc.Converged, &createdAt); err != nil {
			return nil, err
		}
		if doc.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, doc := range docs {
		if doc.Metadata, err = s.findMetadata(ctx, doc.ID); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func (s *DocumentService) findMetadata(ctx context.Context, id string) ([]*htmlmeta.Metadata, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tag, attrs_json, char_start_idx, relative_start_pos, char_end_idx, relative_end_pos, self_closing
		FROM metadata
		WHERE document_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*htmlmeta.Metadata{}
	for rows.Next() {
		m := &htmlmeta.Metadata{Key: htmlmeta.MetadataKey, Type: htmlmeta.MetadataType}
		var attrs string
		var end sql.NullInt64

		if err := rows.Scan(&m.Value, &attrs, &m.CharStartIdx, &m.RelativeStartPos, &end, &m.RelativeEndPos, &m.SelfClosing); err != nil {
			return nil, err
		}
		if end.Valid {
			v := int(end.Int64)
			m.CharEndIdx = &v
		}
		if err := json.Unmarshal([]byte(attrs), &m.HTMLAttrs); err != nil {
			return nil, fmt.Errorf("failed to decode attributes of document %s: %w", id, err)
		}
		records = append(records, m)
	}
	return records, rows.Err()
}
