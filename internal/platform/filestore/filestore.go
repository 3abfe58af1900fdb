package filestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrEmptyFile is returned when a caller tries to store a zero-byte file.
	ErrEmptyFile = errors.New("cannot store empty file")
	// ErrInvalidURL is returned when a relative URL escapes the store directory.
	ErrInvalidURL = errors.New("invalid file URL")
)

// PublicPrefix is the URL path files are served under. Save returns URLs
// carrying this prefix so views can hand them to clients as-is.
const PublicPrefix = "/uploads/"

// DiskStore persists uploaded files under a single base directory and hands
// back relative URLs. It knows nothing about posts or media rows; callers
// keep the returned URL.
type DiskStore struct {
	baseDir string
}

// NewDiskStore creates a store rooted at baseDir, creating it if needed.
func NewDiskStore(baseDir string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create base dir: %w", err)
	}
	return &DiskStore{baseDir: baseDir}, nil
}

// Save writes the file under a generated unique name, keeping the original
// extension, and returns the public URL.
func (s *DiskStore) Save(data []byte, originalName string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}

	ext := filepath.Ext(originalName)
	name := uuid.New().String() + ext

	path := filepath.Join(s.baseDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("filestore: write %s: %w", name, err)
	}

	return PublicPrefix + name, nil
}

// Remove deletes a previously stored file. A missing file is not an error;
// cleanup runs asynchronously and may race a manual delete.
func (s *DiskStore) Remove(relativeURL string) error {
	name := filepath.Base(relativeURL)
	if name == "." || name == string(filepath.Separator) || strings.Contains(relativeURL, "..") {
		return ErrInvalidURL
	}

	err := os.Remove(filepath.Join(s.baseDir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("filestore: remove %s: %w", name, err)
	}
	return nil
}

// BaseDir returns the directory files are stored under.
func (s *DiskStore) BaseDir() string { return s.baseDir }
