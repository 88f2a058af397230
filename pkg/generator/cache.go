package generator

import (
	"sync"
	"time"
)

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// MemoryCache はプロセス内で完結する ImageCacher です。
// 有効期限 0 以下で保存したアイテムは期限切れになりません。
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]cacheEntry
	now   func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]cacheEntry), now: time.Now}
}

func (c *MemoryCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.items, key)
		return nil, false
	}
	return e.value, true
}

func (c *MemoryCache) Set(key string, value any, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var expiresAt time.Time
	if d > 0 {
		expiresAt = c.now().Add(d)
	}
	c.items[key] = cacheEntry{value: value, expiresAt: expiresAt}
}
