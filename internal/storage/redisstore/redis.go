package redisstore

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-stock-app/internal/storage"
	"github.com/fekuna/omnipos-stock-app/pkg/cache"
)

// Store namespaces every key under prefix so several devices or users can
// share one redis.
type Store struct {
	cache  *cache.RedisClient
	prefix string
}

func New(c *cache.RedisClient, prefix string) *Store {
	return &Store{cache: c, prefix: prefix}
}

func (s *Store) key(k string) string {
	return s.prefix + ":" + k
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.cache.Get(ctx, s.key(key))
	if errors.Is(err, cache.ErrCacheMiss) {
		return "", storage.ErrNotFound
	}
	return v, err
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.cache.Set(ctx, s.key(key), value, 0)
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	return s.cache.Delete(ctx, full...)
}
