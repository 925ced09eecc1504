package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore writes blobs to a directory and serves them under baseURL.
// It stands in for a hosted object store in development.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: baseURL}, nil
}

func (s *LocalStore) Store(ctx context.Context, name, contentType string, r io.Reader, size int64) (StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return StoredObject{}, err
	}

	// Client-supplied names are untrusted; keep only the extension.
	filename := uuid.NewString() + filepath.Ext(filepath.Base(name))
	path := filepath.Join(s.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return StoredObject{}, fmt.Errorf("create blob file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(r, size))
	if err != nil {
		os.Remove(path)
		return StoredObject{}, fmt.Errorf("write blob: %w", err)
	}

	return StoredObject{
		URL:         s.baseURL + "/" + filename,
		SizeBytes:   written,
		ContentType: contentType,
	}, nil
}

var _ BlobStore = (*LocalStore)(nil)
