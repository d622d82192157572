package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned when an object is not in the store.
var ErrNotExist = errors.New("object does not exist")

// Storage holds the studio's persisted objects: the gallery document and,
// when enabled, downloaded videos. Names are slash-separated keys.
type Storage interface {
	// Put writes r under name and returns where it can be found.
	Put(ctx context.Context, name string, r io.Reader, contentType string) (string, error)

	Get(ctx context.Context, name string) (io.ReadCloser, error)

	// List returns the names of objects whose key starts with prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	Close() error
}
