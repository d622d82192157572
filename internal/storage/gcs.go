package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSStorage implements Storage on a Google Cloud Storage bucket.
type GCSStorage struct {
	client        *storage.Client
	bucket        string
	objectPrefix  string
	publicBaseURL string
}

// NewGCSStorage creates a new GCSStorage instance
func NewGCSStorage(ctx context.Context, bucketName, objectPrefix, publicBaseURL, credentialsFile string) (*GCSStorage, error) {
	var client *storage.Client
	var err error

	if credentialsFile != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	} else {
		// Use application default credentials
		client, err = storage.NewClient(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStorage{
		client:        client,
		bucket:        bucketName,
		objectPrefix:  strings.Trim(objectPrefix, "/"),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

func (s *GCSStorage) objectName(name string) string {
	return joinPrefix(s.objectPrefix, name)
}

// Put uploads r to the bucket
func (s *GCSStorage) Put(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	objectName := s.objectName(name)

	ctx, cancel := context.WithTimeout(ctx, time.Minute*5)
	defer cancel()

	wc := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := io.Copy(wc, r); err != nil {
		wc.Close()
		return "", fmt.Errorf("failed to copy object to GCS: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}

	// Return the public URL if available, or a gs:// location
	if s.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s", s.publicBaseURL, objectName), nil
	}
	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName), nil
}

func (s *GCSStorage) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	rc, err := s.client.Bucket(s.bucket).Object(s.objectName(name)).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", name, err)
	}
	return rc, nil
}

func (s *GCSStorage) List(ctx context.Context, prefix string) ([]string, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{
		Prefix: s.objectName(prefix),
	})

	var results []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error listing objects: %w", err)
		}

		// Skip directories (objects ending with /)
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}
		results = append(results, trimPrefix(s.objectPrefix, attrs.Name))
	}
	return results, nil
}

// Close closes the GCS client
func (s *GCSStorage) Close() error {
	return s.client.Close()
}
