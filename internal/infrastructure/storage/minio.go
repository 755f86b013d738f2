package storage

import (
	"bytes"
	"context"
	"fmt"

	"storefront-backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStorage persists media objects. Keys follow
// "<collection>/tmp/<token>/<variant>.jpg" for fresh uploads and
// "<collection>/<token>/<variant>.jpg" once attached to an entity.
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

func NewMinIOStorage(cfg config.MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOStorage{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// Upload stores data and returns the public URL of the object.
func (s *MinIOStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	reader := bytes.NewReader(data)

	_, err := s.client.PutObject(ctx, s.bucket, key, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}

	return s.URL(key), nil
}

// URL composes the public URL for a stored key.
func (s *MinIOStorage) URL(key string) string {
	return fmt.Sprintf("http://%s/%s/%s", s.client.EndpointURL().Host, s.bucket, key)
}

// Key converts a public URL produced by URL back into the object key.
// Returns "" when the URL does not point at this bucket.
func (s *MinIOStorage) Key(url string) string {
	prefix := fmt.Sprintf("http://%s/%s/", s.client.EndpointURL().Host, s.bucket)
	if len(url) <= len(prefix) || url[:len(prefix)] != prefix {
		return ""
	}
	return url[len(prefix):]
}

// Copy duplicates an object under a new key.
func (s *MinIOStorage) Copy(ctx context.Context, fromKey, toKey string) error {
	srcOpts := minio.CopySrcOptions{
		Bucket: s.bucket,
		Object: fromKey,
	}
	dstOpts := minio.CopyDestOptions{
		Bucket: s.bucket,
		Object: toKey,
	}

	if _, err := s.client.CopyObject(ctx, dstOpts, srcOpts); err != nil {
		return fmt.Errorf("failed to copy object: %w", err)
	}

	return nil
}

// RemoveObjects deletes the given keys in one batch.
func (s *MinIOStorage) RemoveObjects(ctx context.Context, keys []string) error {
	objectsCh := make(chan minio.ObjectInfo, len(keys))

	go func() {
		defer close(objectsCh)
		for _, key := range keys {
			objectsCh <- minio.ObjectInfo{Key: key}
		}
	}()

	errorCh := s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{})

	for rmErr := range errorCh {
		if rmErr.Err != nil {
			return fmt.Errorf("failed to remove %s: %w", rmErr.ObjectName, rmErr.Err)
		}
	}

	return nil
}
