package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Storage interface for judgment attachment blobs. Blob IDs are opaque
// strings of the form "<judgment_id>_<filename>"; callers persist them
// on the judgment record and hand them back verbatim.
type Storage interface {
	// Upload stores an attachment and returns its blob ID
	Upload(ctx context.Context, judgmentID, filename string, data io.Reader) (string, error)

	// Download retrieves an attachment by blob ID
	Download(ctx context.Context, blobID string) (io.ReadCloser, error)

	// Delete removes an attachment by blob ID
	Delete(ctx context.Context, blobID string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string // For local storage
	S3Bucket     string // For S3 storage
	S3Region     string // For S3 storage
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// generateBlobID builds the blob ID for an attachment. The judgment ID
// prefix keeps names unique across uploads of identically named files
// for different judgments.
func generateBlobID(judgmentID, filename string) string {
	ext := filepath.Ext(filename)
	baseName := strings.TrimSuffix(filename, ext)
	// Sanitize filename
	baseName = strings.ReplaceAll(baseName, " ", "_")
	baseName = strings.ReplaceAll(baseName, "/", "_")
	baseName = strings.ReplaceAll(baseName, "\\", "_")

	return fmt.Sprintf("%s_%s%s", judgmentID, baseName, ext)
}
