// Package cache stores fetched document content between requests so that
// switching back and forth in the viewer does not hit GitHub every time.
// Memory is the default backend; Redis is used when several instances share
// one rate limit budget.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is a byte-value cache keyed by document dedup key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Delete(ctx context.Context, key string)
	// Flush drops every entry, e.g. after the token changed.
	Flush(ctx context.Context)
}

// Memory wraps go-cache with the Store interface.
type Memory struct {
	store *gocache.Cache
}

// NewMemory creates an in-process cache. ttl is the entry lifetime; expired
// entries are swept every 2*ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{store: gocache.New(ttl, 2*ttl)}
}

// Get retrieves a value from the cache.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := m.store.Get(key)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

// Set stores a value with the default TTL.
func (m *Memory) Set(_ context.Context, key string, value []byte) {
	m.store.Set(key, value, gocache.DefaultExpiration)
}

// Delete removes a value from the cache.
func (m *Memory) Delete(_ context.Context, key string) {
	m.store.Delete(key)
}

// Flush removes all items from the cache.
func (m *Memory) Flush(_ context.Context) {
	m.store.Flush()
}

// ItemCount returns the number of items in the cache, expired or not.
func (m *Memory) ItemCount() int {
	return m.store.ItemCount()
}

// Nop never stores anything. It is used when caching is disabled (ttl 0).
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Nop) Set(context.Context, string, []byte)        {}
func (Nop) Delete(context.Context, string)             {}
func (Nop) Flush(context.Context)                      {}
