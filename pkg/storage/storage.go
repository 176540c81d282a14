// Package storage abstracts file storage behind a Disk interface with
// local-filesystem and S3 drivers. The default driver comes from the
// STORAGE_DISK config key.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/shashiranjanraj/sklad/config"
)

// Disk stores and serves uploaded files (product images).
type Disk interface {
	// Put writes the contents of r under key and returns the public URL.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	// Delete removes the object under key. Missing objects are not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public URL for key without touching the backend.
	URL(key string) string
}

// Default builds the configured disk ("local" or "s3").
func Default() (Disk, error) {
	switch config.StorageDefault() {
	case "s3":
		return NewS3Disk()
	case "local":
		return NewLocalDisk(config.StorageLocalRoot(), config.StorageURL()), nil
	default:
		return nil, fmt.Errorf("storage: unknown STORAGE_DISK %q (supported: local, s3)", config.StorageDefault())
	}
}
