// Package storage keeps rendered command streams in object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/erp/posprint/internal/infrastructure/config"
	"github.com/erp/posprint/internal/infrastructure/printing"
	"go.uber.org/zap"
)

const (
	streamContentType = "application/vnd.escpos"
	defaultEndpoint   = "http://localhost:9000"
	defaultRegion     = "us-east-1"
	defaultPresignTTL = 15 * time.Minute
)

// S3StreamStorage keeps streams in an S3-compatible bucket such as AWS S3,
// MinIO or RustFS. URLs handed out are presigned GETs.
type S3StreamStorage struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucket     string
	presignTTL time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

type S3StreamStorageOption func(*S3StreamStorage)

func WithLogger(logger *zap.Logger) S3StreamStorageOption {
	return func(s *S3StreamStorage) { s.logger = logger }
}

// WithPresignExpiration overrides how long download URLs stay valid
func WithPresignExpiration(d time.Duration) S3StreamStorageOption {
	return func(s *S3StreamStorage) { s.presignTTL = d }
}

// NewS3StreamStorage builds a client with static credentials. An endpoint
// without a scheme gets https when UseSSL is set.
func NewS3StreamStorage(cfg *config.StorageConfig, opts ...S3StreamStorageOption) (*S3StreamStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	var missing []error
	for _, field := range []struct{ name, value string }{
		{"bucket", cfg.Bucket},
		{"access key", cfg.AccessKey},
		{"secret key", cfg.SecretKey},
	} {
		if field.value == "" {
			missing = append(missing, fmt.Errorf("storage %s is required", field.name))
		}
	}
	if err := errors.Join(missing...); err != nil {
		return nil, err
	}

	endpoint, err := endpointURL(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = cfg.UsePathStyle
	})

	s := &S3StreamStorage{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		presignTTL: cfg.PresignExpiration,
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.presignTTL <= 0 {
		s.presignTTL = defaultPresignTTL
	}
	return s, nil
}

func endpointURL(raw string, useSSL bool) (string, error) {
	switch {
	case raw == "":
		return defaultEndpoint, nil
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
	case useSSL:
		raw = "https://" + raw
	default:
		raw = "http://" + raw
	}
	if _, err := url.Parse(raw); err != nil {
		return "", fmt.Errorf("invalid storage endpoint: %w", err)
	}
	return raw, nil
}

// EnsureBucket creates the bucket on first start
func (s *S3StreamStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	if !hasCode(err, "NotFound", "NoSuchBucket") {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil && !hasCode(err, "BucketAlreadyOwnedByYou") {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Store uploads under the tenant/year/month key of the job
func (s *S3StreamStorage) Store(ctx context.Context, req *printing.StoreRequest) (*printing.StoreResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := printing.StreamKey(req.TenantID, req.JobID, req.KeyTime(s.now()))
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(req.Data),
		ContentLength: aws.Int64(int64(len(req.Data))),
		ContentType:   aws.String(streamContentType),
	}); err != nil {
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to upload stream", err)
	}

	s.logger.Debug("Stream stored",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("size", len(req.Data)))
	return &printing.StoreResult{Path: key, URL: s.GetURL(key), Size: int64(len(req.Data))}, nil
}

func (s *S3StreamStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if key == "" {
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "storage key is required", nil)
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	switch {
	case err == nil:
		return out.Body, nil
	case hasCode(err, "NoSuchKey", "NotFound"):
		return nil, printing.NewRenderError(printing.ErrCodeNotFound, "stream not found", err)
	default:
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to download stream", err)
	}
}

// Delete treats a missing key as already deleted
func (s *S3StreamStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return printing.NewRenderError(printing.ErrCodeStorageFailed, "storage key is required", nil)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	if err != nil && !hasCode(err, "NoSuchKey", "NotFound") {
		return printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to delete stream", err)
	}
	return nil
}

// CleanupOlderThan walks the bucket and deletes .bin objects last
// modified before now-age. A failed delete is logged and skipped.
func (s *S3StreamStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := s.now().Add(-age)
	deleted := 0

	pages := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return deleted, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to list streams", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, printing.StreamExt) || obj.LastModified == nil || !obj.LastModified.Before(cutoff) {
				continue
			}
			if err := s.Delete(ctx, key); err != nil {
				s.logger.Warn("Deleting expired stream failed", zap.String("key", key), zap.Error(err))
				continue
			}
			deleted++
		}
	}
	return deleted, nil
}

// GetURL presigns a GET for key. It falls back to an s3:// URL when
// presigning fails.
func (s *S3StreamStorage) GetURL(key string) string {
	req, err := s.presigner.PresignGetObject(context.Background(),
		&s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)},
		s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		s.logger.Warn("Presigning stream URL failed", zap.String("key", key), zap.Error(err))
		return "s3://" + s.bucket + "/" + key
	}
	return req.URL
}

func (s *S3StreamStorage) GetBucket() string {
	return s.bucket
}

// hasCode reports whether err is an S3 API error with one of codes
func hasCode(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.ErrorCode() == code {
			return true
		}
	}
	return false
}
