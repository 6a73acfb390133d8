package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage persists uploaded case documents. Paths returned by Upload are
// opaque keys understood only by the same backend.
type Storage interface {
	Upload(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error)
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)
	Delete(ctx context.Context, storagePath string) error
}

// Backend identifies the storage backend
type Backend string

const (
	BackendLocal Backend = "local"
	BackendS3    Backend = "s3"
)

// Config holds storage backend configuration
type Config struct {
	Backend      Backend
	LocalDir     string
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// New creates a storage backend from configuration
func New(cfg Config) (Storage, error) {
	switch cfg.Backend {
	case BackendLocal:
		return NewLocalStorage(cfg.LocalDir)
	case BackendS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}

// NewFromEnv creates a storage backend from environment variables.
// DOCUMENT_STORAGE selects the backend; local is the development default.
func NewFromEnv() (Storage, error) {
	backend := os.Getenv("DOCUMENT_STORAGE")
	if backend == "" {
		backend = string(BackendLocal)
	}

	switch Backend(backend) {
	case BackendLocal:
		dir := os.Getenv("DOCUMENT_DIR")
		if dir == "" {
			dir = "./data/documents"
		}
		return NewLocalStorage(dir)

	case BackendS3:
		cfg := Config{
			Backend:      BackendS3,
			S3Bucket:     os.Getenv("AWS_S3_BUCKET"),
			S3Region:     os.Getenv("AWS_REGION"),
			AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		}
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1"
		}
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET is required for S3 document storage")
		}
		return NewS3Storage(cfg)

	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

// documentKey builds the storage key for an uploaded document. The file ID
// keeps keys unique even when two sessions upload the same filename.
func documentKey(fileID uuid.UUID, filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, base)
	return fmt.Sprintf("documents/%s/%s%s", fileID, base, filepath.Ext(filename))
}
