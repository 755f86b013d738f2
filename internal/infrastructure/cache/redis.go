package cache

import (
	"context"
	"fmt"
	"time"

	"storefront-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to redis and verifies the connection. The same
// client backs the search index; asynq opens its own connection from the
// same config.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
