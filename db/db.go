package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Database struct {
	Client *mongo.Client

	Products    *mongo.Collection
	Categories  *mongo.Collection
	Orders      *mongo.Collection
	Customers   *mongo.Collection
	Carousel    *mongo.Collection
	Settings    *mongo.Collection
	Pages       *mongo.Collection
	About       *mongo.Collection
	Admins      *mongo.Collection
	Idempotency *mongo.Collection
}

// Connect dials MongoDB and pings it before returning.
func Connect(ctx context.Context, uri, name string) (*Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	d := client.Database(name)
	zap.L().Info("✅ connected to MongoDB", zap.String("db", name))

	return &Database{
		Client:      client,
		Products:    d.Collection("products"),
		Categories:  d.Collection("categories"),
		Orders:      d.Collection("orders"),
		Customers:   d.Collection("customers"),
		Carousel:    d.Collection("carousel"),
		Settings:    d.Collection("settings"),
		Pages:       d.Collection("policyPages"),
		About:       d.Collection("about"),
		Admins:      d.Collection("admins"),
		Idempotency: d.Collection("idempotency"),
	}, nil
}

// EnsureIndexes creates the indexes the repositories rely on.
func (d *Database) EnsureIndexes(ctx context.Context) error {
	specs := map[*mongo.Collection][]mongo.IndexModel{
		d.Products: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "categoryId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "price", Value: 1}}},
		},
		d.Orders: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		d.Customers: {
			{Keys: bson.M{"phone": 1}, Options: options.Index().SetUnique(true).SetName("unique_phone")},
		},
		d.Admins: {
			{Keys: bson.M{"email": 1}, Options: options.Index().SetUnique(true).SetName("unique_email")},
		},
		d.Carousel: {
			{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "order", Value: 1}}},
		},
		d.Idempotency: {
			{Keys: bson.M{"key": 1}, Options: options.Index().SetUnique(true).SetName("unique_key")},
			{Keys: bson.M{"expires_at": 1}, Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires_at")},
		},
	}

	for col, idxs := range specs {
		if _, err := col.Indexes().CreateMany(ctx, idxs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", col.Name(), err)
		}
	}
	return nil
}

func (d *Database) Disconnect(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}

// IsDuplicateKey reports a unique index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
