package cache

import (
	"context"
	"sync"
)

// Versioned wraps a Store with a generation that every Flush advances.
// Writers that started before a Flush use SetIfGeneration so they cannot
// repopulate the cache with content the Flush was meant to drop.
type Versioned struct {
	Store

	mu  sync.RWMutex
	gen uint64
}

// NewVersioned wraps s.
func NewVersioned(s Store) *Versioned {
	return &Versioned{Store: s}
}

// Generation returns the current generation.
func (v *Versioned) Generation() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.gen
}

// Flush advances the generation and flushes the wrapped store.
func (v *Versioned) Flush(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	v.Store.Flush(ctx)
}

// SetIfGeneration stores value only when no Flush happened since gen was read.
// It reports whether the value was stored.
func (v *Versioned) SetIfGeneration(ctx context.Context, gen uint64, key string, value []byte) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.gen != gen {
		return false
	}
	v.Store.Set(ctx, key, value)
	return true
}
