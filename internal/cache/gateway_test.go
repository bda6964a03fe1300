package cache

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenStore simulates an unavailable cache backend.
type brokenStore struct{}

func (brokenStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("connection refused")
}

func (brokenStore) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	return 0, errors.New("connection refused")
}

func (brokenStore) Clear(ctx context.Context) error {
	return errors.New("connection refused")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestGatewayRoundTrip(t *testing.T) {
	ctx := context.Background()
	gateway := NewGateway(NewMemoryStore(), time.Minute, testLogger())

	_, ok := gateway.Get(ctx, "overdue_tasks:default")
	assert.False(t, ok)

	gateway.Set(ctx, "overdue_tasks:default", []byte(`{"count":0}`))
	value, ok := gateway.Get(ctx, "overdue_tasks:default")
	require.True(t, ok)
	assert.Equal(t, `{"count":0}`, string(value))
}

func TestGatewayTTLExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	current := time.Now()
	store.now = func() time.Time { return current }

	gateway := NewGateway(store, time.Minute, testLogger())
	gateway.SetWithTTL(ctx, "k", []byte("v"), 30*time.Second)

	_, ok := gateway.Get(ctx, "k")
	assert.True(t, ok)

	current = current.Add(31 * time.Second)
	_, ok = gateway.Get(ctx, "k")
	assert.False(t, ok, "entry must expire after its TTL")
}

func TestGatewayDeleteByPattern(t *testing.T) {
	ctx := context.Background()
	gateway := NewGateway(NewMemoryStore(), time.Minute, testLogger())

	gateway.Set(ctx, "overdue_tasks:default", []byte("a"))
	gateway.Set(ctx, "overdue_tasks:page=2", []byte("b"))
	gateway.Set(ctx, "projects:default", []byte("c"))

	removed := gateway.DeleteByPattern(ctx, "overdue_tasks:*")
	assert.Equal(t, 2, removed)

	_, ok := gateway.Get(ctx, "overdue_tasks:default")
	assert.False(t, ok)
	_, ok = gateway.Get(ctx, "projects:default")
	assert.True(t, ok, "entries outside the pattern must survive")
}

func TestGatewayClearAll(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	gateway := NewGateway(store, time.Minute, testLogger())

	gateway.Set(ctx, "a", []byte("1"))
	gateway.Set(ctx, "b", []byte("2"))
	gateway.ClearAll(ctx)
	assert.Equal(t, 0, store.Len())
}

func TestGatewaySwallowsStoreFailures(t *testing.T) {
	ctx := context.Background()
	gateway := NewGateway(brokenStore{}, time.Minute, testLogger())

	_, ok := gateway.Get(ctx, "k")
	assert.False(t, ok, "store failure reads as a miss")

	// writes and deletes must not panic or surface errors
	gateway.Set(ctx, "k", []byte("v"))
	assert.Equal(t, 0, gateway.DeleteByPattern(ctx, "k*"))
	gateway.ClearAll(ctx)
}

func TestGatewayNilStore(t *testing.T) {
	ctx := context.Background()
	gateway := NewGateway(nil, time.Minute, testLogger())

	_, ok := gateway.Get(ctx, "k")
	assert.False(t, ok)
	gateway.Set(ctx, "k", []byte("v"))
	assert.Equal(t, 0, gateway.DeleteByPattern(ctx, "*"))
}
