package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Store.Get when the key is absent or
// expired.
var ErrCacheMiss = errors.New("cache: key not found")

// Store is the external key-value cache boundary: whole-value reads and
// replaces with TTLs, glob-pattern deletion, and a full flush. All
// operations are best-effort from the Gateway's point of view.
type Store interface {
	// Get returns the value stored under key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given TTL, replacing any
	// previous value whole.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeleteByPattern removes every key matching the glob pattern in a
	// single deletion, so no reader observes a half-deleted match set.
	// Returns the number of keys removed.
	DeleteByPattern(ctx context.Context, pattern string) (int, error)

	// Clear removes every key in the store.
	Clear(ctx context.Context) error
}
