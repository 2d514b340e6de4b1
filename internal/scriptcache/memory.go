package scriptcache

import (
	"context"
	"sync"

	"github.com/phrazzld/lingo-api/internal/domain"
)

// MemoryCache is a process-local Cache implementation. Used in tests
// and as a fallback when no database is configured.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.Script
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*domain.Script),
	}
}

// Ensure MemoryCache implements Cache
var _ Cache = (*MemoryCache)(nil)

// Get implements Cache.Get. A missing key is (nil, nil).
func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.Script, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	script, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	copied := *script
	return &copied, nil
}

// Put implements Cache.Put.
func (c *MemoryCache) Put(ctx context.Context, key string, script *domain.Script) error {
	if script == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *script
	c.entries[key] = &copied
	return nil
}
