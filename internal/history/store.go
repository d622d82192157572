// Package history is the gallery of successfully generated videos.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jaki95/video-factory/internal/domain"
)

var ErrNotFound = errors.New("video not found")

// DashboardSize is how many recent creations the dashboard shows.
const DashboardSize = 4

// Store is the in-memory gallery, loaded once and written through to a
// Repository on every change. Newest records come first.
type Store struct {
	mu     sync.RWMutex
	repo   Repository
	videos []domain.GeneratedVideo

	// saveMu orders snapshots and saves so the newest snapshot is written last.
	saveMu sync.Mutex
}

// Open loads the gallery from repo.
func Open(ctx context.Context, repo Repository) (*Store, error) {
	videos, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	slog.Debug("Loaded history", "count", len(videos))
	return &Store{repo: repo, videos: videos}, nil
}

// Append records v as the newest creation and persists the gallery. The
// record is kept in memory even if persisting fails.
func (s *Store) Append(ctx context.Context, v domain.GeneratedVideo) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	s.videos = append([]domain.GeneratedVideo{v}, s.videos...)
	snapshot := s.copyLocked()
	s.mu.Unlock()

	if err := s.repo.Save(ctx, snapshot); err != nil {
		slog.Error("Failed to persist history", "error", err, "videoId", v.ID)
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// List returns every record, newest first.
func (s *Store) List() []domain.GeneratedVideo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// Recent returns at most n of the newest records.
func (s *Store) Recent(n int) []domain.GeneratedVideo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n < 0 {
		n = 0
	}
	if n > len(s.videos) {
		n = len(s.videos)
	}
	out := make([]domain.GeneratedVideo, n)
	copy(out, s.videos[:n])
	return out
}

func (s *Store) Get(id string) (domain.GeneratedVideo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.videos {
		if v.ID == id {
			return v, nil
		}
	}
	return domain.GeneratedVideo{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.videos)
}

func (s *Store) copyLocked() []domain.GeneratedVideo {
	out := make([]domain.GeneratedVideo, len(s.videos))
	copy(out, s.videos)
	return out
}
