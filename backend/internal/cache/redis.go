package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores JSON-encoded values under a shared key prefix.
type RedisCache struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

func NewRedisCache(config *CacheConfig) *RedisCache {
	if config == nil {
		config = DefaultCacheConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	return NewRedisCacheFromClient(client, config.KeyPrefix)
}

func NewRedisCacheFromClient(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{
		client:  client,
		prefix:  prefix,
		timeout: 3 * time.Second,
	}
}

func (c *RedisCache) key(k string) string {
	return c.prefix + k
}

func (c *RedisCache) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.timeout)
}

func (c *RedisCache) Set(key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}

	ctx, cancel := c.ctx()
	defer cancel()

	return c.client.Set(ctx, c.key(key), payload, ttl).Err()
}

func (c *RedisCache) Get(key string, dest interface{}) error {
	ctx, cancel := c.ctx()
	defer cancel()

	payload, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("failed to decode cache value: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(key string) error {
	ctx, cancel := c.ctx()
	defer cancel()

	return c.client.Del(ctx, c.key(key)).Err()
}

func (c *RedisCache) DeletePattern(pattern string) error {
	ctx, cancel := c.ctx()
	defer cancel()

	iter := c.client.Scan(ctx, 0, c.key(pattern), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) Exists(key string) (bool, error) {
	ctx, cancel := c.ctx()
	defer cancel()

	n, err := c.client.Exists(ctx, c.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *RedisCache) Stats() map[string]interface{} {
	pool := c.client.PoolStats()
	return map[string]interface{}{
		"type":        "redis",
		"hits":        pool.Hits,
		"misses":      pool.Misses,
		"timeouts":    pool.Timeouts,
		"total_conns": pool.TotalConns,
		"idle_conns":  pool.IdleConns,
	}
}

func (c *RedisCache) Health() error {
	ctx, cancel := c.ctx()
	defer cancel()

	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
