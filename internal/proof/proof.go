// Package proof validates payment-proof attachments before they reach the
// booking service. Storage itself is the blob store's job; by the time an
// object lands here it already has a URL, a size and a detected content type.
package proof

import (
	"fmt"

	"github.com/Domenick1991/roomstay/internal/domain"
	"github.com/Domenick1991/roomstay/internal/storage"
)

const MaxSizeBytes = 1 << 20 // 1 MiB

// allowedTypes for proofs; avatars additionally accept gif, but avatar
// uploads never pass through this package.
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// Validate rejects an attachment with domain.ErrInvalidAttachment before any
// transition is attempted.
func Validate(obj storage.StoredObject) error {
	if obj.URL == "" {
		return fmt.Errorf("%w: empty file reference", domain.ErrInvalidAttachment)
	}
	if !allowedTypes[obj.ContentType] {
		return fmt.Errorf("%w: content type %q not allowed", domain.ErrInvalidAttachment, obj.ContentType)
	}
	if obj.SizeBytes <= 0 || obj.SizeBytes > MaxSizeBytes {
		return fmt.Errorf("%w: size %d exceeds %d bytes", domain.ErrInvalidAttachment, obj.SizeBytes, MaxSizeBytes)
	}
	return nil
}
