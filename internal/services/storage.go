package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Hazher89/driftpro-admin-complete/internal/config"
	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
)

// localStorageService implements StorageService on the local filesystem.
// Paths are tenant-prefixed keys; the public URL is the key appended to the
// configured base URL.
type localStorageService struct {
	logger  *logger.Logger
	baseDir string
	baseURL string
}

// NewLocalStorageService creates a storage service rooted at the configured
// directory
func NewLocalStorageService(logger *logger.Logger, cfg *config.Config) (StorageService, error) {
	baseDir := cfg.Storage.BaseDir
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", baseDir, err)
	}

	return &localStorageService{
		logger:  logger,
		baseDir: baseDir,
		baseURL: strings.TrimRight(cfg.Storage.PublicBaseURL, "/"),
	}, nil
}

// Upload writes the content under the given key and returns the public URL
// and the number of bytes written
func (s *localStorageService) Upload(ctx context.Context, path, contentType string, content io.Reader) (string, int64, error) {
	cleaned, err := s.resolve(path)
	if err != nil {
		return "", 0, err
	}

	if err := os.MkdirAll(filepath.Dir(cleaned), 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	file, err := os.Create(cleaned)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	size, err := io.Copy(file, content)
	if err != nil {
		_ = os.Remove(cleaned)
		return "", 0, fmt.Errorf("failed to write file %s: %w", path, err)
	}

	url := fmt.Sprintf("%s/%s", s.baseURL, strings.TrimLeft(path, "/"))

	s.logger.WithField("path", path).
		WithField("size_bytes", size).
		Info("File uploaded")

	return url, size, nil
}

// Open returns the content stored under the given key. The caller must
// close the reader.
func (s *localStorageService) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	cleaned, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(cleaned)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	return file, nil
}

// Delete removes the file under the given key. Deleting a missing key
// succeeds.
func (s *localStorageService) Delete(ctx context.Context, path string) error {
	cleaned, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(cleaned); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", path, err)
	}
	return nil
}

// resolve maps a storage key to an absolute path and rejects keys that
// escape the storage root
func (s *localStorageService) resolve(path string) (string, error) {
	cleaned := filepath.Join(s.baseDir, filepath.Clean("/"+path))
	if !strings.HasPrefix(cleaned, filepath.Clean(s.baseDir)+string(os.PathSeparator)) {
		return "", NewValidationError("path", "path escapes storage root")
	}
	return cleaned, nil
}
