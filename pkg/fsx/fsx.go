package fsx

import (
	"context"
	"io"
)

// FileSystem abstracts blob storage for uploaded files
type FileSystem interface {
	// WriteFile stores data at the given path, overwriting any existing object
	WriteFile(ctx context.Context, path string, data []byte) error

	// ReadFile reads the full object at the given path
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// ReadFileStream opens the object at the given path for streaming reads
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)

	// DeleteFile removes the object at the given path
	DeleteFile(ctx context.Context, path string) error

	// Exists reports whether an object exists at the given path
	Exists(ctx context.Context, path string) (bool, error)

	// Join builds a storage path from segments
	Join(parts ...string) string
}
