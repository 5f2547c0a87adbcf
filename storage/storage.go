package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
)

// ExportStorage stores exported roadmap documents. Exports are written once
// and addressed by the key returned from Put.
type ExportStorage interface {
	// Put stores a roadmap export and returns its storage key
	Put(ctx context.Context, exportID uuid.UUID, ideaTitle string, data io.Reader) (string, error)

	// Get retrieves an export by storage key
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an export by storage key
	Delete(ctx context.Context, key string) error
}

// StorageType represents the export storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for export storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string // For local storage
	S3Bucket     string // For S3 storage
	S3Region     string // For S3 storage
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new export storage instance based on configuration
func NewStorage(cfg StorageConfig) (ExportStorage, error) {
	switch cfg.Type {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// NewStorageFromEnv creates an export storage instance from environment variables
func NewStorageFromEnv() (ExportStorage, error) {
	storageType := os.Getenv("STORAGE_TYPE")
	if storageType == "" {
		storageType = "local" // Default to local for development
	}

	cfg := StorageConfig{
		Type: StorageType(storageType),
	}

	switch StorageType(storageType) {
	case StorageTypeLocal:
		localPath := os.Getenv("STORAGE_LOCAL_PATH")
		if localPath == "" {
			localPath = "./data/exports" // Default local export path
		}
		cfg.LocalPath = localPath
		return NewLocalStorage(cfg.LocalPath)

	case StorageTypeS3:
		cfg.S3Bucket = os.Getenv("AWS_S3_BUCKET")
		cfg.S3Region = os.Getenv("AWS_REGION")
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1" // Default region
		}
		cfg.AWSAccessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		cfg.AWSSecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
		}

		return NewS3Storage(cfg)

	default:
		return nil, fmt.Errorf("unknown storage type: %s", storageType)
	}
}

// exportKey builds the storage key for a roadmap export. The idea title is
// slugged into the key so exports stay recognizable when browsing the bucket
// or directory; the export ID guarantees uniqueness.
func exportKey(exportID uuid.UUID, ideaTitle string) string {
	slug := strings.ToLower(strings.TrimSpace(ideaTitle))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "roadmap"
	}
	if len(slug) > 60 {
		slug = slug[:60]
	}

	return fmt.Sprintf("%s/%s_%s.md", exportID.String()[:2], exportID.String(), slug)
}
