package storage

import (
	"context"
	"fmt"

	"github.com/jaki95/video-factory/config"
)

// New builds the storage backend named by cfg.Type.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalFileStorage(cfg.OutputDir)
	case "gcs":
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("gcs storage requires a bucket")
		}
		return NewGCSStorage(ctx, cfg.Bucket, cfg.ObjectPrefix, cfg.PublicBaseURL, cfg.CredentialsFile)
	case "minio":
		if cfg.Bucket == "" || cfg.Minio.Endpoint == "" {
			return nil, fmt.Errorf("minio storage requires an endpoint and a bucket")
		}
		return NewMinioStorage(ctx, MinioConfig{
			Endpoint:     cfg.Minio.Endpoint,
			AccessKey:    cfg.Minio.AccessKey,
			SecretKey:    cfg.Minio.SecretKey,
			Region:       cfg.Minio.Region,
			Bucket:       cfg.Bucket,
			ObjectPrefix: cfg.ObjectPrefix,
			UseSSL:       cfg.Minio.UseSSL,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
