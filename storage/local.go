package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage implements Storage interface for local filesystem.
// Blobs live flat under the base path so a filesystem backup can pick
// them up without walking a hierarchy.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Create base directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

// Upload stores an attachment locally
func (s *LocalStorage) Upload(ctx context.Context, judgmentID, filename string, data io.Reader) (string, error) {
	blobID := generateBlobID(judgmentID, filename)
	fullPath := filepath.Join(s.basePath, blobID)

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	_, err = io.Copy(file, data)
	if err != nil {
		os.Remove(fullPath) // Clean up on error
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return blobID, nil
}

// Download retrieves an attachment from local storage
func (s *LocalStorage) Download(ctx context.Context, blobID string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.basePath, blobID)

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob not found: %s", blobID)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete removes an attachment from local storage
func (s *LocalStorage) Delete(ctx context.Context, blobID string) error {
	fullPath := filepath.Join(s.basePath, blobID)

	err := os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
