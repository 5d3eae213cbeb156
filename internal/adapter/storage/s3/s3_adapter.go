package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Storage uploads avatar variants to an S3-compatible bucket. It works
// against AWS S3 proper and against MinIO in development.
type Storage struct {
	client   *minio.Client
	endpoint string
	region   string
	bucket   string
	useSSL   bool
	logger   *zap.Logger
}

func NewStorage(endpoint, region, accessKey, secretKey, bucket string, useSSL bool, logger *zap.Logger) (*Storage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client for %s: %w", endpoint, err)
	}

	err = client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{Region: region})
	if err != nil {
		exists, existsErr := client.BucketExists(context.Background(), bucket)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("make/verify bucket %s: %w", bucket, err)
		}
	}

	logger.Info("object storage ready",
		zap.String("endpoint", endpoint),
		zap.String("bucket", bucket))

	return &Storage{
		client:   client,
		endpoint: endpoint,
		region:   region,
		bucket:   bucket,
		useSSL:   useSSL,
		logger:   logger,
	}, nil
}

func (s *Storage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("upload object %s: %w", key, err)
	}
	s.logger.Debug("object uploaded", zap.String("key", key), zap.Int("size_bytes", len(data)))
	return nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// URL returns the public URL for a stored key.
func (s *Storage) URL(key string) string {
	return objectURL(s.endpoint, s.region, s.bucket, key, s.useSSL)
}

// objectURL builds virtual-host style URLs for AWS endpoints
// (https://<bucket>.s3.<region>.amazonaws.com/<key>) and falls back to
// path style for MinIO and other custom endpoints.
func objectURL(endpoint, region, bucket, key string, useSSL bool) string {
	if strings.HasSuffix(endpoint, "amazonaws.com") {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
	}
	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, endpoint, bucket, key)
}
