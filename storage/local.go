package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStorage keeps case documents on the local filesystem
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates a local storage backend rooted at baseDir
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create document directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Upload writes a document under the base directory
func (s *LocalStorage) Upload(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error) {
	key := documentKey(fileID, filename)
	fullPath := filepath.Join(s.baseDir, key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("write document: %w", err)
	}

	return key, nil
}

// Download opens a stored document
func (s *LocalStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.baseDir, storagePath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document not found: %s", storagePath)
		}
		return nil, fmt.Errorf("open document: %w", err)
	}
	return f, nil
}

// Delete removes a stored document. Deleting a missing document is not an
// error.
func (s *LocalStorage) Delete(ctx context.Context, storagePath string) error {
	err := os.Remove(filepath.Join(s.baseDir, storagePath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
