package pkg

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rbse-library/library-service/internal/config"
)

// NewRedisClient builds a client from the configured URL. Callers decide
// whether a missing URL is fatal; caching and rate limiting degrade without it.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is not configured")
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	return redis.NewClient(opts), nil
}
