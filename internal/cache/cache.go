// Package cache stores JSON encoded values with a TTL, in redis when it is
// configured and in process memory otherwise.
package cache

import (
	"context"
	"time"

	"diamondtrade/internal/config"

	"go.uber.org/zap"
)

// Cache is a small JSON value cache.
type Cache interface {
	// Get decodes the value under key into dest. found is false on a miss.
	Get(ctx context.Context, key string, dest interface{}) (found bool, err error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}

// New connects to redis when cfg.Addr is set. An unreachable redis is logged
// and replaced by the in-memory cache so the API keeps serving.
func New(cfg config.RedisConfig, log *zap.Logger) Cache {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Addr == "" {
		log.Info("Redis not configured, using in-memory cache")
		return NewMemoryCache()
	}

	c, err := NewRedisCache(cfg, log)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory cache", zap.String("addr", cfg.Addr), zap.Error(err))
		return NewMemoryCache()
	}
	log.Info("Connected to Redis", zap.String("addr", cfg.Addr))
	return c
}
