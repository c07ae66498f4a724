package printing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StreamExt is the file extension of stored command streams
const StreamExt = ".bin"

// StreamStorage stores rendered command streams so a job can be
// downloaded or reprinted later
type StreamStorage interface {
	// Store saves a stream and returns its path and URL
	Store(ctx context.Context, req *StoreRequest) (*StoreResult, error)
	// Get opens a stored stream by its path
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes a stored stream
	Delete(ctx context.Context, path string) error
	// CleanupOlderThan removes streams older than age
	CleanupOlderThan(ctx context.Context, age time.Duration) (int, error)
	// GetURL returns the URL a stored stream is served from
	GetURL(path string) string
}

// StoreRequest contains the parameters for storing a stream
type StoreRequest struct {
	TenantID uuid.UUID
	JobID    uuid.UUID
	Data     []byte
	// At dates the storage key; zero means now
	At time.Time
}

// StoreResult contains the result of storing a stream
type StoreResult struct {
	// Path is the storage path, relative to the storage root
	Path string
	URL  string
	Size int64
}

// Validate checks the request carries everything needed to store it
func (r *StoreRequest) Validate() error {
	if r == nil {
		return NewRenderError(ErrCodeStorageFailed, "store request is nil", nil)
	}
	if r.TenantID == uuid.Nil {
		return NewRenderError(ErrCodeStorageFailed, "tenant ID is required", nil)
	}
	if r.JobID == uuid.Nil {
		return NewRenderError(ErrCodeStorageFailed, "job ID is required", nil)
	}
	if len(r.Data) == 0 {
		return NewRenderError(ErrCodeStorageFailed, "stream data is empty", nil)
	}
	return nil
}

// KeyTime returns the time the stream key is dated by
func (r *StoreRequest) KeyTime(now time.Time) time.Time {
	if r.At.IsZero() {
		return now
	}
	return r.At.UTC()
}

// StreamKey returns the relative path of a job's stream:
// {tenant_id}/{year}/{month}/{job_id}.bin
func StreamKey(tenantID, jobID uuid.UUID, at time.Time) string {
	return filepath.ToSlash(filepath.Join(
		tenantID.String(),
		fmt.Sprintf("%d", at.Year()),
		fmt.Sprintf("%02d", at.Month()),
		jobID.String()+StreamExt,
	))
}

// FileSystemStorageConfig contains configuration for file system storage
type FileSystemStorageConfig struct {
	// BasePath is the root directory
	// Default: /data/receipts
	BasePath string
	// BaseURL prefixes download URLs
	// Example: https://pos.example.com/api/v1/print/jobs/streams
	BaseURL string
	Logger  *zap.Logger
}

// FileSystemStorage stores streams on the local file system
type FileSystemStorage struct {
	config *FileSystemStorageConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewFileSystemStorage creates a file system stream storage
func NewFileSystemStorage(config *FileSystemStorageConfig) (*FileSystemStorage, error) {
	if config == nil {
		config = &FileSystemStorageConfig{}
	}
	if config.BasePath == "" {
		config.BasePath = "/data/receipts"
	}
	if config.BaseURL == "" {
		config.BaseURL = "/api/v1/print/streams"
	}

	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed,
			fmt.Sprintf("failed to create storage directory: %s", config.BasePath), err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FileSystemStorage{
		config: config,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Store writes the stream under {base}/{tenant_id}/{year}/{month}/{job_id}.bin
func (s *FileSystemStorage) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	relativePath := StreamKey(req.TenantID, req.JobID, req.KeyTime(s.now()))
	filePath := filepath.Join(s.config.BasePath, filepath.FromSlash(relativePath))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create directory", err)
	}
	if err := os.WriteFile(filePath, req.Data, 0644); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to write stream file", err)
	}

	url := s.GetURL(relativePath)
	s.logger.Info("Stream stored",
		zap.String("path", filePath),
		zap.Int("size", len(req.Data)),
		zap.String("url", url))

	return &StoreResult{
		Path: relativePath,
		URL:  url,
		Size: int64(len(req.Data)),
	}, nil
}

// Get opens a stored stream by its relative path
func (s *FileSystemStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}

	fullPath, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewRenderError(ErrCodeNotFound, "stream not found", err)
		}
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to open stream file", err)
	}
	return file, nil
}

// Delete removes a stored stream; a missing file is not an error
func (s *FileSystemStorage) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}

	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return NewRenderError(ErrCodeStorageFailed, "failed to delete stream file", err)
	}

	s.logger.Info("Stream deleted", zap.String("path", path))
	return nil
}

// CleanupOlderThan removes streams whose modification time is older than age
func (s *FileSystemStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := s.now().Add(-age)
	deletedCount := 0

	err := filepath.Walk(s.config.BasePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != StreamExt {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err == nil {
				deletedCount++
				s.logger.Debug("deleted old stream", zap.String("path", path))
			}
		}
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return deletedCount, NewRenderError(ErrCodeStorageFailed, "cleanup walk failed", err)
	}

	s.logger.Info("cleanup completed",
		zap.Int("deleted", deletedCount),
		zap.Duration("age", age))
	return deletedCount, nil
}

// GetURL returns the download URL for a stored stream
func (s *FileSystemStorage) GetURL(path string) string {
	cleanPath := filepath.ToSlash(filepath.Clean(path))
	return fmt.Sprintf("%s/%s", strings.TrimRight(s.config.BaseURL, "/"), cleanPath)
}

// resolve maps a relative path to a file under BasePath, rejecting
// anything that would escape it
func (s *FileSystemStorage) resolve(path string) (string, error) {
	cleanPath := filepath.Clean(filepath.FromSlash(path))
	if path == "" || filepath.IsAbs(cleanPath) || containsDotDot(path) {
		s.logger.Warn("blocked potentially malicious path",
			zap.String("path", path),
			zap.String("cleanPath", cleanPath))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}

	fullPath := filepath.Join(s.config.BasePath, cleanPath)

	absBase, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve base path", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve file path", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		s.logger.Warn("path escape attempt blocked",
			zap.String("path", path),
			zap.String("absPath", absPath),
			zap.String("absBase", absBase))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}
	return fullPath, nil
}

// containsDotDot checks the raw path for ".." components before any
// normalisation
func containsDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\' || r == filepath.Separator
	})
	return slices.Contains(parts, "..")
}

var _ StreamStorage = (*FileSystemStorage)(nil)
