package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalDisk stores files on the local filesystem under a root directory.
type LocalDisk struct {
	root    string
	baseURL string
}

// NewLocalDisk creates a disk rooted at root; URLs are baseURL + "/" + key.
func NewLocalDisk(root, baseURL string) *LocalDisk {
	return &LocalDisk{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (d *LocalDisk) Put(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	path, err := d.safePath(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("storage: mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("storage: create %s: %w", key, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("storage: write %s: %w", key, err)
	}

	return d.URL(key), nil
}

func (d *LocalDisk) Delete(_ context.Context, key string) error {
	path, err := d.safePath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

func (d *LocalDisk) URL(key string) string {
	return d.baseURL + "/" + strings.TrimPrefix(key, "/")
}

// safePath resolves key inside the root, rejecting path traversal.
func (d *LocalDisk) safePath(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return filepath.Join(d.root, clean), nil
}
