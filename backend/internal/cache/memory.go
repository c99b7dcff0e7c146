package cache

import (
	"strings"
	"sync"
	"time"
)

// MemoryCache is the process-local L1 tier. Entries expire lazily on read and
// eagerly on a one-minute sweep.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	expired int64

	stop chan struct{}
	once sync.Once
}

type memoryEntry struct {
	value     interface{}
	expiresAt time.Time
}

func (e memoryEntry) expiredAt(now time.Time) bool {
	return now.After(e.expiresAt)
}

func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]memoryEntry),
		stop:    make(chan struct{}),
	}
	go c.sweepEvery(time.Minute)
	return c
}

func (c *MemoryCache) Set(key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if entry.expiredAt(time.Now()) {
		c.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the key.
		if current, still := c.entries[key]; still && current.expiredAt(time.Now()) {
			delete(c.entries, key)
			c.expired++
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

func (c *MemoryCache) Exists(key string) (bool, error) {
	_, ok := c.Get(key)
	return ok, nil
}

func (c *MemoryCache) Delete(key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) DeletePattern(pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if matchPattern(key, pattern) {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *MemoryCache) Clear() error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}

// Len counts entries that have not yet expired.
func (c *MemoryCache) Len() int {
	now := time.Now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, entry := range c.entries {
		if !entry.expiredAt(now) {
			n++
		}
	}
	return n
}

func (c *MemoryCache) Stats() map[string]interface{} {
	items := c.Len()

	c.mu.RLock()
	expired := c.expired
	c.mu.RUnlock()

	return map[string]interface{}{
		"type":    "memory",
		"items":   items,
		"expired": expired,
	}
}

func (c *MemoryCache) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			c.sweep(now)
		case <-c.stop:
			return
		}
	}
}

func (c *MemoryCache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if entry.expiredAt(now) {
			delete(c.entries, key)
			c.expired++
		}
	}
}

func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

// matchPattern supports "*" and a single trailing wildcard, e.g. "lookup:*".
func matchPattern(text, pattern string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(text, prefix)
	}
	return text == pattern
}
