package rdx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect opens a client and pings it.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

// Cache is a read-through JSON cache. A nil *Cache caches nothing.
type Cache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewCache(rdb *redis.Client, prefix string, ttl time.Duration) *Cache {
	if rdb == nil {
		return nil
	}
	return &Cache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

// Get decodes the cached value into dst and reports whether it was found.
// Redis errors count as a miss.
func (c *Cache) Get(ctx context.Context, k string, dst any) bool {
	if c == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, c.key(k)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (c *Cache) Set(ctx context.Context, k string, v any) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(k), raw, c.ttl).Err()
}

func (c *Cache) Del(ctx context.Context, k string) error {
	if c == nil {
		return nil
	}
	err := c.rdb.Del(ctx, c.key(k)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
