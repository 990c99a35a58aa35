package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound    = errors.New("stored object not found")
	ErrInvalidPath = errors.New("storage path escapes the storage root")
)

// Storage keeps uploaded photo bytes under relative paths.
type Storage interface {
	Save(ctx context.Context, path string, content io.Reader) error
	// Get returns ErrNotFound when nothing is stored at path.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete is a no-op for missing paths.
	Delete(ctx context.Context, path string) error
}
