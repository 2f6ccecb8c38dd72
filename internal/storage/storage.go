// internal/storage/storage.go
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned when a referenced object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore holds the bytes behind record references. Records only carry
// keys; resolving a key to a URL or a reader always goes through here.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Copy duplicates an existing object under a new key. The simulated
	// processing step uses it to derive the processed and thumbnail objects.
	Copy(ctx context.Context, dstKey, srcKey string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
	// PresignedURL returns a short-lived download URL for the object.
	PresignedURL(ctx context.Context, key string) (string, error)
}
