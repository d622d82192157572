package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalFileStorage implements Storage on a local directory.
type LocalFileStorage struct {
	root string
}

// NewLocalFileStorage creates a new local file storage rooted at dir.
func NewLocalFileStorage(dir string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return &LocalFileStorage{root: dir}, nil
}

func (s *LocalFileStorage) path(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(name, "/")))
	if clean == "." || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	return filepath.Join(s.root, clean), nil
}

// Put writes the object through a temp file so readers never see a partial write.
func (s *LocalFileStorage) Put(_ context.Context, name string, r io.Reader, _ string) (string, error) {
	path, err := s.path(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move %s into place: %w", name, err)
	}
	return path, nil
}

// Get returns a reader for the named object
func (s *LocalFileStorage) Get(_ context.Context, name string) (io.ReadCloser, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, name)
	}
	return f, err
}

// List walks the root and returns keys starting with prefix, sorted.
func (s *LocalFileStorage) List(_ context.Context, prefix string) ([]string, error) {
	var results []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			results = append(results, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	sort.Strings(results)
	return results, nil
}

func (s *LocalFileStorage) Close() error {
	return nil
}
