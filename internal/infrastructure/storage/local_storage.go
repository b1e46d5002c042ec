package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	catalogapp "github.com/foodcourt/pos/internal/application/catalog"
)

// LocalImageStorage keeps images under a directory that the HTTP server
// exposes at URLPrefix. Download URLs do not expire.
type LocalImageStorage struct {
	dir       string
	urlPrefix string
}

// NewLocalImageStorage creates the directory if needed
func NewLocalImageStorage(dir, urlPrefix string) (*LocalImageStorage, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalImageStorage{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Dir returns the root directory
func (s *LocalImageStorage) Dir() string {
	return s.dir
}

// path resolves a key below dir, rejecting keys that escape it
func (s *LocalImageStorage) path(storageKey string) (string, error) {
	if storageKey == "" {
		return "", errEmptyKey
	}
	clean := filepath.Clean("/" + storageKey)
	if clean == "/" {
		return "", fmt.Errorf("invalid storage key %q", storageKey)
	}
	return filepath.Join(s.dir, filepath.FromSlash(clean)), nil
}

// Upload writes the image to disk
func (s *LocalImageStorage) Upload(_ context.Context, storageKey string, data []byte, _ string) error {
	p, err := s.path(storageKey)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to upload image: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("failed to upload image: %w", err)
	}
	return nil
}

// GenerateDownloadURL returns the public path of the image
func (s *LocalImageStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if _, err := s.path(storageKey); err != nil {
		return "", time.Time{}, err
	}
	segments := strings.Split(strings.TrimPrefix(storageKey, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.urlPrefix + "/" + strings.Join(segments, "/"), time.Now().Add(expiresIn), nil
}

// DeleteObject removes the image. Deleting a missing key succeeds.
func (s *LocalImageStorage) DeleteObject(_ context.Context, storageKey string) error {
	p, err := s.path(storageKey)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

var _ catalogapp.ImageStorage = (*LocalImageStorage)(nil)
