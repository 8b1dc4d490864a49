package favorites

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"shoestore/apperr"
)

// Store keeps a set of product ids per session.
type Store interface {
	List(ctx context.Context, sessionID string) ([]string, error)
	Add(ctx context.Context, sessionID, productID string) error
	Remove(ctx context.Context, sessionID, productID string) error
	Contains(ctx context.Context, sessionID, productID string) (bool, error)
	Count(ctx context.Context, sessionID string) (int64, error)
}

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func redisKey(sessionID string) string {
	return "favorites:" + sessionID
}

// Every call refreshes the set's expiry so an active shopper keeps it.
func (s *RedisStore) List(ctx context.Context, sessionID string) ([]string, error) {
	var members *redis.StringSliceCmd
	err := s.touch(ctx, sessionID, func(pipe redis.Pipeliner, key string) {
		members = pipe.SMembers(ctx, key)
	})
	if err != nil {
		return nil, apperr.Persistence("list favorites", err)
	}
	ids := members.Val()
	if ids == nil {
		ids = []string{}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *RedisStore) Add(ctx context.Context, sessionID, productID string) error {
	err := s.touch(ctx, sessionID, func(pipe redis.Pipeliner, key string) {
		pipe.SAdd(ctx, key, productID)
	})
	if err != nil {
		return apperr.Persistence("add favorite", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, sessionID, productID string) error {
	err := s.touch(ctx, sessionID, func(pipe redis.Pipeliner, key string) {
		pipe.SRem(ctx, key, productID)
	})
	if err != nil {
		return apperr.Persistence("remove favorite", err)
	}
	return nil
}

func (s *RedisStore) Contains(ctx context.Context, sessionID, productID string) (bool, error) {
	var member *redis.BoolCmd
	err := s.touch(ctx, sessionID, func(pipe redis.Pipeliner, key string) {
		member = pipe.SIsMember(ctx, key, productID)
	})
	if err != nil {
		return false, apperr.Persistence("check favorite", err)
	}
	return member.Val(), nil
}

func (s *RedisStore) Count(ctx context.Context, sessionID string) (int64, error) {
	var card *redis.IntCmd
	err := s.touch(ctx, sessionID, func(pipe redis.Pipeliner, key string) {
		card = pipe.SCard(ctx, key)
	})
	if err != nil {
		return 0, apperr.Persistence("count favorites", err)
	}
	return card.Val(), nil
}

// touch runs queue and an EXPIRE on the session's set in one transaction.
func (s *RedisStore) touch(ctx context.Context, sessionID string, queue func(pipe redis.Pipeliner, key string)) error {
	key := redisKey(sessionID)
	pipe := s.rdb.TxPipeline()
	queue(pipe, key)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

type MemoryStore struct {
	mu   sync.Mutex
	sets map[string]map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sets: make(map[string]map[string]struct{})}
}

func (s *MemoryStore) List(_ context.Context, sessionID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.sets[sessionID]))
	for id := range s.sets[sessionID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) Add(_ context.Context, sessionID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sets[sessionID] == nil {
		s.sets[sessionID] = make(map[string]struct{})
	}
	s.sets[sessionID][productID] = struct{}{}
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, sessionID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets[sessionID], productID)
	return nil
}

func (s *MemoryStore) Contains(_ context.Context, sessionID, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sets[sessionID][productID]
	return ok, nil
}

func (s *MemoryStore) Count(_ context.Context, sessionID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.sets[sessionID])), nil
}
