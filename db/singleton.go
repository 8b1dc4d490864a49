package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LoadOrInit reads the document with the given _id, inserting the value
// from defaults first if it does not exist yet.
func LoadOrInit[T any](ctx context.Context, col *mongo.Collection, id any, defaults func() T) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc T
	err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == nil {
		return &doc, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	doc = defaults()
	if _, err := col.InsertOne(ctx, doc); err != nil && !IsDuplicateKey(err) {
		return nil, err
	}
	// a concurrent first read may have won the insert
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Upsert replaces the document with the given _id, creating it if needed.
func Upsert(ctx context.Context, col *mongo.Collection, id any, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := col.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}
