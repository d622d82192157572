package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig holds connection details for an S3-compatible endpoint.
type MinioConfig struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Region       string
	Bucket       string
	ObjectPrefix string
	UseSSL       bool
}

// MinioStorage implements Storage on a MinIO or other S3-compatible bucket.
type MinioStorage struct {
	client       *minio.Client
	bucket       string
	objectPrefix string
	endpoint     string
	secure       bool
}

// NewMinioStorage connects to the endpoint and creates the bucket if needed.
func NewMinioStorage(ctx context.Context, cfg MinioConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		slog.Info("Created storage bucket", "bucket", cfg.Bucket)
	}

	return &MinioStorage{
		client:       client,
		bucket:       cfg.Bucket,
		objectPrefix: strings.Trim(cfg.ObjectPrefix, "/"),
		endpoint:     cfg.Endpoint,
		secure:       cfg.UseSSL,
	}, nil
}

func (s *MinioStorage) Put(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	objectName := joinPrefix(s.objectPrefix, name)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectName, err)
	}

	scheme := "http"
	if s.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, objectName), nil
}

func (s *MinioStorage) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	objectName := joinPrefix(s.objectPrefix, name)
	// GetObject is lazy; Stat surfaces a missing key up front.
	if _, err := s.client.StatObject(ctx, s.bucket, objectName, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, name)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", objectName, err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", objectName, err)
	}
	return obj, nil
}

func (s *MinioStorage) List(ctx context.Context, prefix string) ([]string, error) {
	var results []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    joinPrefix(s.objectPrefix, prefix),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("error listing objects: %w", obj.Err)
		}
		results = append(results, trimPrefix(s.objectPrefix, obj.Key))
	}
	return results, nil
}

// Close is a no-op; the MinIO client holds no resources to release.
func (s *MinioStorage) Close() error {
	return nil
}
