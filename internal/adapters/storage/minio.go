package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"peo-doctrack/internal/config"
	"peo-doctrack/internal/core/domain"
	"peo-doctrack/internal/core/services"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore stores document attachments in a MinIO bucket. It enforces
// the content-type allowlist and size cap before any bytes are sent.
type MinioStore struct {
	client  *minio.Client
	bucket  string
	maxSize int64
	allowed map[string]bool
}

// NewMinioStore constructs a MinIO-backed blob store from config.
func NewMinioStore(cfg config.BlobConfig) (*MinioStore, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("blob endpoint is required")
	}
	if strings.TrimSpace(cfg.AccessKey) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errors.New("blob access key and secret key are required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("blob bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]bool, len(cfg.ContentTypes))
	for _, ct := range cfg.ContentTypes {
		if ct != "" {
			allowed[ct] = true
		}
	}

	return &MinioStore{
		client:  client,
		bucket:  cfg.Bucket,
		maxSize: int64(cfg.MaxSizeMB) * 1024 * 1024,
		allowed: allowed,
	}, nil
}

// EnsureBucket ensures the configured bucket exists.
func (m *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
}

// Store uploads an attachment under a generated object key and returns
// the stored location. Disallowed content types and oversized uploads are
// rejected as invalid input.
func (m *MinioStore) Store(ctx context.Context, r io.Reader, size int64, name, contentType string) (*services.StoredBlob, error) {
	if !m.allowed[contentType] {
		return nil, fmt.Errorf("%w: content type %q not allowed", domain.ErrInvalidInput, contentType)
	}
	if size <= 0 || size > m.maxSize {
		return nil, fmt.Errorf("%w: file size %d exceeds limit %d", domain.ErrInvalidInput, size, m.maxSize)
	}

	key := uuid.New().String() + filepath.Ext(name)

	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, err
	}

	return &services.StoredBlob{
		Path: key,
		Name: name,
		Size: size,
	}, nil
}

// Get opens a reader for a stored attachment.
func (m *MinioStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
}

// Delete removes a stored attachment.
func (m *MinioStore) Delete(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}
