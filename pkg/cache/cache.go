package cache

import (
	"context"
	"encoding/json"
	"errors"
	"healthwatch/pkg/redisstore"
	"time"

	"github.com/rs/zerolog"
)

// Backend is the raw byte store behind Cache. A miss must be reported as
// redisstore.ErrKeyNotFound.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Cache is a fail-open JSON cache: backend and codec errors are logged and
// degrade to a miss (reads) or a no-op (writes). Callers never see them.
type Cache struct {
	backend Backend
	logger  *zerolog.Logger
}

func New(backend Backend, logger *zerolog.Logger) *Cache {
	return &Cache{
		backend: backend,
		logger:  logger,
	}
}

// Get decodes the value stored under key into T. ok is false on a miss or on
// any failure.
func Get[T any](ctx context.Context, c *Cache, key string) (value T, ok bool) {
	data, err := c.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redisstore.ErrKeyNotFound) {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed, falling back to store")
		}
		return value, false
	}

	if err := json.Unmarshal(data, &value); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache entry undecodable, treating as miss")
		var zero T
		return zero, false
	}
	return value, true
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache value not serialisable, skipping write")
		return
	}
	if err := c.backend.Set(ctx, key, data, ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (c *Cache) Remove(ctx context.Context, keys ...string) {
	if err := c.backend.Del(ctx, keys...); err != nil {
		c.logger.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}
