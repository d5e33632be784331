package database

import (
	"log/slog"

	"poll-service/internal/cache"
	"poll-service/internal/config"
)

// NewCacheStore opens the fast counter selected by CACHE_DRIVER. The
// returned closer releases its connection.
func NewCacheStore(cfg *config.Config) (cache.Store, func() error, error) {
	if cfg.Cache.Driver == "memory" {
		slog.Warn("Using in-process cache; rate limits and tokens are not shared between instances")
		return cache.NewMemoryCounter(), func() error { return nil }, nil
	}

	redisClient, err := NewRedisConnection(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewRedisCounter(redisClient.GetClient()), redisClient.Close, nil
}
