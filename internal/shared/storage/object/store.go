package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving, retrieving and removing binary objects.
// Save returns the stable public URL of the stored object.
type ObjectStore interface {
	Save(ctx context.Context, key string, contentType string, r io.Reader) (url string, sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
