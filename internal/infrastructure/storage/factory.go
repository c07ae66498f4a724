package storage

import (
	"context"
	"fmt"

	infraconfig "github.com/erp/posprint/internal/infrastructure/config"
	"github.com/erp/posprint/internal/infrastructure/printing"
	"go.uber.org/zap"
)

// NewStreamStorage creates the stream storage selected by cfg.Type. The
// S3 bucket is created when missing.
func NewStreamStorage(ctx context.Context, cfg *infraconfig.StorageConfig, logger *zap.Logger) (printing.StreamStorage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Type {
	case "", "filesystem":
		return printing.NewFileSystemStorage(&printing.FileSystemStorageConfig{
			BasePath: cfg.BasePath,
			BaseURL:  cfg.BaseURL,
			Logger:   logger,
		})
	case "s3":
		s, err := NewS3StreamStorage(cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
