// Package storage abstracts the blob store collaborator. The core only sees
// the triple (url, size, content type) that a store returns.
package storage

import (
	"context"
	"io"
)

type StoredObject struct {
	URL         string
	SizeBytes   int64
	ContentType string
}

type BlobStore interface {
	Store(ctx context.Context, name, contentType string, r io.Reader, size int64) (StoredObject, error)
}
