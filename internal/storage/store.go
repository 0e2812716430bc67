package storage

import "context"

// ObjectStore abstracts where rendered card blobs live. Paths are
// content-addressed by the caller, so Upload may freely overwrite: the bytes
// at a given path never change meaning.
type ObjectStore interface {
	// Upload writes the blob at path, overwriting any existing object.
	Upload(ctx context.Context, path string, data []byte, contentType string) error

	// PublicURL maps a stored path to a publicly fetchable URL without a
	// network round-trip.
	PublicURL(path string) string

	// Read returns the stored blob, primarily for serving it back out.
	Read(ctx context.Context, path string) ([]byte, error)
}
