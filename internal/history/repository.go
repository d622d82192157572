package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jaki95/video-factory/internal/domain"
	"github.com/jaki95/video-factory/internal/storage"
	"github.com/redis/go-redis/v9"
)

// DefaultKey is the single key the gallery lives under.
const DefaultKey = "video_factory_history"

// Repository loads and saves the whole gallery as one value. Every save
// rewrites the full list.
type Repository interface {
	Load(ctx context.Context) ([]domain.GeneratedVideo, error)
	Save(ctx context.Context, videos []domain.GeneratedVideo) error
}

// DocumentRepository keeps the gallery as a JSON document in object storage.
type DocumentRepository struct {
	store storage.Storage
	name  string
}

func NewDocumentRepository(store storage.Storage, key string) *DocumentRepository {
	if key == "" {
		key = DefaultKey
	}
	return &DocumentRepository{store: store, name: key + ".json"}
}

func (r *DocumentRepository) Load(ctx context.Context) ([]domain.GeneratedVideo, error) {
	rc, err := r.store.Get(ctx, r.name)
	if errors.Is(err, storage.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	defer rc.Close()

	var videos []domain.GeneratedVideo
	if err := json.NewDecoder(rc).Decode(&videos); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return videos, nil
}

func (r *DocumentRepository) Save(ctx context.Context, videos []domain.GeneratedVideo) error {
	data, err := encode(videos)
	if err != nil {
		return err
	}
	if _, err := r.store.Put(ctx, r.name, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// RedisClient is the slice of the go-redis client the repository needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisRepository keeps the gallery as a JSON string under one Redis key.
type RedisRepository struct {
	client RedisClient
	key    string
}

func NewRedisRepository(client RedisClient, key string) *RedisRepository {
	if key == "" {
		key = DefaultKey
	}
	return &RedisRepository{client: client, key: key}
}

func (r *RedisRepository) Load(ctx context.Context) ([]domain.GeneratedVideo, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history from redis: %w", err)
	}

	var videos []domain.GeneratedVideo
	if err := json.Unmarshal(data, &videos); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return videos, nil
}

func (r *RedisRepository) Save(ctx context.Context, videos []domain.GeneratedVideo) error {
	data, err := encode(videos)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write history to redis: %w", err)
	}
	return nil
}

func encode(videos []domain.GeneratedVideo) ([]byte, error) {
	if videos == nil {
		videos = []domain.GeneratedVideo{}
	}
	data, err := json.Marshal(videos)
	if err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}
	return data, nil
}
