// Package snapshot serves the catalog from a static gzipped JSON file.
package snapshot

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"storefront/internal/model"
)

// Loader defines the interface for loading catalog snapshots.
type Loader interface {
	// Load reads a gzipped snapshot and returns the catalog it contains.
	Load(ctx context.Context, path string) (*model.Page, error)
}

// Decode reads a gzipped `{"products": [...], "total": n}` document.
func Decode(r io.Reader) (*model.Page, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	var page model.Page
	if err := json.NewDecoder(gzipReader).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	page.Normalize(0)
	return &page, nil
}

// Encode writes page as a gzipped snapshot document.
func Encode(w io.Writer, page *model.Page) error {
	gzipWriter := gzip.NewWriter(w)

	if err := json.NewEncoder(gzipWriter).Encode(page); err != nil {
		gzipWriter.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}

	return nil
}
