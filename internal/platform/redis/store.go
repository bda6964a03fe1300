// Package redis implements the cache store boundary on a Redis backend.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taskboard/taskboard-api/internal/cache"
	"github.com/taskboard/taskboard-api/internal/config"
)

// scanBatchSize is the COUNT hint used when scanning for pattern deletes.
const scanBatchSize = 100

// Store implements cache.Store against a Redis server.
type Store struct {
	client *goredis.Client
	logger *slog.Logger
}

// New connects to Redis using the given cache configuration and
// verifies the connection with a short ping. Callers that receive an
// error should run without a cache backend rather than failing startup:
// the cache is an optimization.
func New(cfg config.CacheConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.RedisAddr, err)
	}

	return &Store{
		client: client,
		logger: logger.With(slog.String("component", "redis_store")),
	}, nil
}

var _ cache.Store = (*Store)(nil)

// Get implements cache.Store.Get.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, cache.ErrCacheMiss
		}
		return nil, err
	}
	return value, nil
}

// Set implements cache.Store.Set.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// DeleteByPattern implements cache.Store.DeleteByPattern. Matching keys
// are collected with SCAN and removed in one DEL, so concurrent readers
// see either the full match set or none of it.
func (s *Store) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan keys for pattern %q: %w", pattern, err)
	}

	if len(keys) == 0 {
		return 0, nil
	}

	removed, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to delete %d keys: %w", len(keys), err)
	}

	s.logger.Debug("deleted cache keys by pattern",
		"pattern", pattern, "removed", removed)
	return int(removed), nil
}

// Clear implements cache.Store.Clear.
func (s *Store) Clear(ctx context.Context) error {
	return s.client.FlushDB(ctx).Err()
}

// Close releases the underlying client connections.
func (s *Store) Close() error {
	return s.client.Close()
}
