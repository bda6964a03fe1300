package cache

import (
	"context"
	"path"
	"sync"
	"time"
)

// memoryEntry is one cached value with its expiry moment. A zero
// expiry never expires.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store used when no Redis backend is
// configured and as the test double for the Gateway. Entries are
// whole-value replace/delete; a mutex keeps concurrent readers and
// writers safe.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

var _ Store = (*MemoryStore)(nil)

// Get implements Store.Get.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, ErrCacheMiss
	}
	return entry.value, nil
}

// Set implements Store.Set.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = entry
	return nil
}

// DeleteByPattern implements Store.DeleteByPattern. The whole match set
// is removed under one lock acquisition, so no concurrent reader sees
// it half-deleted.
func (s *MemoryStore) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for key := range s.entries {
		matched, err := path.Match(pattern, key)
		if err != nil {
			return count, err
		}
		if matched {
			delete(s.entries, key)
			count++
		}
	}
	return count, nil
}

// Clear implements Store.Clear.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]memoryEntry)
	return nil
}

// Len reports the number of live entries, for tests.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
