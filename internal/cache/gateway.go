package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Gateway is a read-through cache front. It never propagates store
// failures: an unavailable store reads as a miss and drops writes, so
// the cache stays an optimization rather than a correctness dependency.
// A nil store disables caching entirely (every read misses).
type Gateway struct {
	store      Store
	defaultTTL time.Duration
	logger     *slog.Logger
}

// NewGateway creates a Gateway over the given store with a default TTL
// applied to writes that do not override it. The store may be nil when
// no cache backend is configured.
func NewGateway(store Store, defaultTTL time.Duration, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}

	return &Gateway{
		store:      store,
		defaultTTL: defaultTTL,
		logger:     logger.With(slog.String("component", "cache_gateway")),
	}
}

// Get returns the cached value for key and whether it was present.
// Store errors are logged and reported as a miss.
func (g *Gateway) Get(ctx context.Context, key string) ([]byte, bool) {
	if g.store == nil {
		return nil, false
	}

	value, err := g.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			g.logger.Warn("cache read failed, treating as miss",
				"error", err, "key", key)
		}
		return nil, false
	}
	return value, true
}

// Set stores value under key with the default TTL. Failures are logged
// and dropped.
func (g *Gateway) Set(ctx context.Context, key string, value []byte) {
	g.SetWithTTL(ctx, key, value, g.defaultTTL)
}

// SetWithTTL stores value under key with an explicit TTL, overriding
// the default. Failures are logged and dropped.
func (g *Gateway) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if g.store == nil {
		return
	}

	if err := g.store.Set(ctx, key, value, ttl); err != nil {
		g.logger.Warn("cache write failed, dropping entry",
			"error", err, "key", key)
	}
}

// DeleteByPattern removes every cached entry whose key matches the glob
// pattern and returns how many were removed. Failures are logged and
// reported as zero removals.
func (g *Gateway) DeleteByPattern(ctx context.Context, pattern string) int {
	if g.store == nil {
		return 0
	}

	count, err := g.store.DeleteByPattern(ctx, pattern)
	if err != nil {
		g.logger.Warn("cache pattern delete failed",
			"error", err, "pattern", pattern)
		return 0
	}
	return count
}

// ClearAll removes every entry in the cache. Failures are logged and
// dropped.
func (g *Gateway) ClearAll(ctx context.Context) {
	if g.store == nil {
		return
	}

	if err := g.store.Clear(ctx); err != nil {
		g.logger.Warn("cache clear failed", "error", err)
	}
}
