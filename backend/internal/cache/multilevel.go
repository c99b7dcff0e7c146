package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"golang.org/x/sync/singleflight"
)

const l1PromotionTTL = 5 * time.Minute

// MultiLevelCache keeps an in-process L1 in front of an optional shared L2.
// L2 failures are absorbed by the circuit breaker and never surface to callers
// on writes.
type MultiLevelCache struct {
	l1             *MemoryCache
	l2             Cache
	metrics        *CacheMetrics
	circuitBreaker *CircuitBreaker
	warmer         *CacheWarmer
	loads          singleflight.Group
}

func NewMultiLevelCache(l2 Cache, strategy *WarmupStrategy) *MultiLevelCache {
	mlc := &MultiLevelCache{
		l1:             NewMemoryCache(),
		l2:             l2,
		metrics:        NewCacheMetrics(),
		circuitBreaker: NewCircuitBreaker(DefaultCircuitBreakerConfig()),
	}

	mlc.warmer = NewCacheWarmer(mlc, strategy)

	return mlc
}

func (c *MultiLevelCache) Set(key string, value interface{}, ttl time.Duration) error {
	c.l1.Set(key, value, ttl)
	c.metrics.RecordSet()

	if c.l2 != nil {
		err := c.circuitBreaker.Execute(func() error {
			return c.l2.Set(key, value, ttl)
		})
		if err != nil {
			c.metrics.RecordError()
		}
	}

	return nil
}

func (c *MultiLevelCache) Get(key string, dest interface{}) error {
	if value, found := c.l1.Get(key); found {
		c.metrics.RecordHit()
		return copyValue(value, dest)
	}

	if c.l2 != nil {
		err := c.circuitBreaker.Execute(func() error {
			return c.l2.Get(key, dest)
		})
		if err == nil {
			c.l1.Set(key, reflect.ValueOf(dest).Elem().Interface(), l1PromotionTTL)
			c.metrics.RecordHit()
			return nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			c.metrics.RecordError()
		}
	}

	c.metrics.RecordMiss()
	return ErrCacheMiss
}

// GetOrLoad reads key into dest, calling load and caching its result on a
// miss. Concurrent misses on one key share a single load.
func (c *MultiLevelCache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, dest interface{}, load func(context.Context) (interface{}, error)) error {
	if err := c.Get(key, dest); err == nil {
		return nil
	}

	value, err, shared := c.loads.Do(key, func() (interface{}, error) {
		c.metrics.RecordLoad()
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.Set(key, value, ttl); err != nil {
			return nil, err
		}
		return value, nil
	})
	if shared {
		c.metrics.RecordSharedLoad()
	}
	if err != nil {
		return err
	}

	return copyValue(value, dest)
}

func (c *MultiLevelCache) Delete(key string) error {
	c.l1.Delete(key)
	c.metrics.RecordDelete()

	if c.l2 != nil {
		err := c.circuitBreaker.Execute(func() error {
			return c.l2.Delete(key)
		})
		if err != nil {
			c.metrics.RecordError()
		}
		return err
	}

	return nil
}

func (c *MultiLevelCache) DeletePattern(pattern string) error {
	c.l1.DeletePattern(pattern)

	if c.l2 != nil {
		return c.circuitBreaker.Execute(func() error {
			return c.l2.DeletePattern(pattern)
		})
	}

	return nil
}

func (c *MultiLevelCache) Exists(key string) (bool, error) {
	if _, found := c.l1.Get(key); found {
		return true, nil
	}

	if c.l2 != nil {
		return c.l2.Exists(key)
	}

	return false, nil
}

func (c *MultiLevelCache) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"l1":               c.l1.Stats(),
		"metrics":          c.metrics.GetStats(),
		"hit_rate_percent": c.metrics.HitRate(),
		"circuit_breaker":  c.circuitBreaker.GetStats(),
	}

	if c.warmer != nil {
		stats["warmer"] = c.warmer.GetStats()
	}

	if c.l2 != nil {
		stats["l2"] = c.l2.Stats()
	}

	return stats
}

func (c *MultiLevelCache) Health() error {
	if c.l2 != nil {
		return c.l2.Health()
	}

	return nil
}

func (c *MultiLevelCache) Close() error {
	if c.warmer != nil {
		c.warmer.Stop()
	}

	c.l1.Close()

	if c.l2 != nil {
		return c.l2.Close()
	}

	return nil
}

func (c *MultiLevelCache) GetWarmer() *CacheWarmer {
	return c.warmer
}

func (c *MultiLevelCache) GetMetrics() *CacheMetrics {
	return c.metrics
}

func (c *MultiLevelCache) GetCircuitBreaker() *CircuitBreaker {
	return c.circuitBreaker
}

// copyValue deep-copies src into the pointer dest through a JSON round trip so
// callers never share slices held by the L1 store.
func copyValue(src, dest interface{}) error {
	destValue := reflect.ValueOf(dest)
	if destValue.Kind() != reflect.Ptr {
		return fmt.Errorf("destination must be a pointer, got %T", dest)
	}

	if destValue.IsNil() {
		return fmt.Errorf("destination pointer is nil")
	}

	jsonData, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("failed to marshal source value: %w", err)
	}

	if err := json.Unmarshal(jsonData, dest); err != nil {
		return fmt.Errorf("failed to unmarshal to destination: %w", err)
	}

	return nil
}
