package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"shoestore/apperr"
)

// Store keeps one cart per session id.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, c *Cart) error
	Clear(ctx context.Context, sessionID string) error
}

// RedisStore saves each cart as a JSON blob with a sliding expiry.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func redisKey(sessionID string) string {
	return "cart:" + sessionID
}

// Load reads the cart and pushes its expiry back by the full TTL.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	raw, err := s.rdb.GetEx(ctx, redisKey(sessionID), s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		return nil, apperr.Persistence("load cart", err)
	}

	c := New()
	if err := json.Unmarshal(raw, c); err != nil {
		// corrupt blob: start over
		return New(), nil
	}
	if c.Items == nil {
		c.Clear()
	}
	return c, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, c *Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return apperr.Persistence("encode cart", err)
	}
	if err := s.rdb.Set(ctx, redisKey(sessionID), raw, s.ttl).Err(); err != nil {
		return apperr.Persistence("save cart", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, redisKey(sessionID)).Err(); err != nil {
		return apperr.Persistence("clear cart", err)
	}
	return nil
}

// MemoryStore is a process-local Store used when Redis is not configured.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]*Cart)}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[sessionID]
	if !ok {
		return New(), nil
	}
	return &Cart{Items: c.Snapshot()}, nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, c *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = &Cart{Items: c.Snapshot()}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}
