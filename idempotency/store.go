package idempotency

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"shoestore/db"
	"shoestore/models"
)

var (
	ErrDuplicate = errors.New("idempotency key already used")
	ErrNotFound  = errors.New("idempotency record not found")
)

type Store interface {
	Insert(ctx context.Context, rec models.IdempotencyRecord) error
	Find(ctx context.Context, key string) (*models.IdempotencyRecord, error)
	SaveResponse(ctx context.Context, key string, resp models.CachedResponse) error
	Delete(ctx context.Context, key string) error
}

// MongoStore keeps records in a collection with a unique index on key and a
// TTL index on expires_at.
type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{collection: collection}
}

func (s *MongoStore) Insert(ctx context.Context, rec models.IdempotencyRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.collection.InsertOne(ctx, rec)
	if db.IsDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

func (s *MongoStore) Find(ctx context.Context, key string) (*models.IdempotencyRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var rec models.IdempotencyRecord
	err := s.collection.FindOne(ctx, bson.M{"key": key}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *MongoStore) SaveResponse(ctx context.Context, key string, resp models.CachedResponse) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.collection.UpdateOne(ctx, bson.M{"key": key}, bson.M{"$set": bson.M{"response": resp}})
	return err
}

func (s *MongoStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.collection.DeleteOne(ctx, bson.M{"key": key})
	return err
}

type MemoryStore struct {
	mu      sync.Mutex
	records map[string]models.IdempotencyRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]models.IdempotencyRecord)}
}

func (s *MemoryStore) Insert(_ context.Context, rec models.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.records[rec.Key]; ok && time.Now().Before(old.ExpiresAt) {
		return ErrDuplicate
	}
	s.records[rec.Key] = rec
	return nil
}

func (s *MemoryStore) Find(_ context.Context, key string) (*models.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *MemoryStore) SaveResponse(_ context.Context, key string, resp models.CachedResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok {
		return ErrNotFound
	}
	rec.Response = &resp
	s.records[key] = rec
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}
