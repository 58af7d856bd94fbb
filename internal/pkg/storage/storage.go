package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("file not found")

// FileStorage archives generated documents such as published payslips.
type FileStorage interface {
	// Upload stores the content under key and returns the cleaned key
	Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error)

	// Download retrieves a stored file. Returns ErrNotFound when missing.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file. Missing files are not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public location of key
	URL(key string) string

	// Exists checks if a file exists
	Exists(ctx context.Context, key string) (bool, error)
}
