package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jaki95/video-factory/config"
	"github.com/jaki95/video-factory/internal/storage"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens a client and checks the server answers.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewRepository picks the backend named in cfg. The returned close func
// releases any connection the repository owns.
func NewRepository(ctx context.Context, cfg *config.Config, store storage.Storage) (Repository, func() error, error) {
	switch cfg.History.Backend {
	case "", "document":
		return NewDocumentRepository(store, cfg.History.Key), func() error { return nil }, nil
	case "redis":
		client, err := ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisRepository(client, cfg.History.Key), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported history backend: %s", cfg.History.Backend)
	}
}
