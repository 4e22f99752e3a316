// Package fs writes extracted documents to a directory, one pair of files
// per document.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/htmlmeta"
)

// IDToName converts a document ID to a file name without extension.
// Characters that cannot appear in a file name are replaced with "_".
// Example: nq/train#3 → nq_train#3
func IDToName(id string) (string, error) {
	if id == "" {
		return "", htmlmeta.Errorf(htmlmeta.EINVALID, "document ID required")
	}

	name := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r < 0x20:
			return '_'
		default:
			return r
		}
	}, id)

	// Dot names refer to directories.
	if strings.Trim(name, ".") == "" {
		name = strings.Repeat("_", len(name))
	}
	return name, nil
}

// metadataFile is the layout of the .json file written next to the text.
type metadataFile struct {
	ID       string               `json:"id"`
	URL      string               `json:"url,omitempty"`
	Metadata []*htmlmeta.Metadata `json:"metadata"`
}

// Ensure Writer implements htmlmeta.DocumentWriter at compile time.
var _ htmlmeta.DocumentWriter = (*Writer)(nil)

// Writer writes each document as a .txt file holding its plain text and a
// .json file holding its metadata records.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteDocument writes doc to disk, replacing earlier files of the same ID.
func (w *Writer) WriteDocument(ctx context.Context, doc *htmlmeta.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	name, err := IDToName(doc.ID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return err
	}

	base := filepath.Join(w.baseDir, name)
	if err := os.WriteFile(base+".txt", []byte(doc.Text), 0644); err != nil {
		return err
	}

	meta, err := json.MarshalIndent(metadataFile{
		ID:       doc.ID,
		URL:      doc.URL,
		Metadata: doc.Metadata,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata of %s: %w", doc.ID, err)
	}
	return os.WriteFile(base+".json", append(meta, '\n'), 0644)
}
