package customers

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shoestore/apperr"
	"shoestore/db"
	"shoestore/models"
	"shoestore/utils"
)

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(collection *mongo.Collection) *Repository {
	return &Repository{collection: collection}
}

// List returns customers, biggest spenders first. search matches name or
// phone.
func (r *Repository) List(ctx context.Context, search, status string) ([]models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	if search = strings.TrimSpace(search); search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
		filter["$or"] = bson.A{bson.M{"name": pattern}, bson.M{"phone": pattern}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "totalSpent", Value: -1}, {Key: "joinDate", Value: -1}})
	cur, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Persistence("list customers", err)
	}
	defer cur.Close(ctx)

	out := []models.Customer{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Persistence("decode customers", err)
	}
	return out, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var c models.Customer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound(apperr.MsgNotFound)
	}
	if err != nil {
		return nil, apperr.Persistence("find customer", err)
	}
	return &c, nil
}

func (r *Repository) Create(ctx context.Context, c *models.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c.ID = utils.GetUUID()
	_, err := r.collection.InsertOne(ctx, c)
	if db.IsDuplicateKey(err) {
		return apperr.Conflict(apperr.MsgDuplicatePhone)
	}
	if err != nil {
		return apperr.Persistence("insert customer", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, id string, set bson.M) (*models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c models.Customer
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&c)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, apperr.NotFound(apperr.MsgNotFound)
	case db.IsDuplicateKey(err):
		return nil, apperr.Conflict(apperr.MsgDuplicatePhone)
	case err != nil:
		return nil, apperr.Persistence("update customer", err)
	}
	return &c, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Persistence("delete customer", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound(apperr.MsgNotFound)
	}
	return nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperr.Persistence("count customers", err)
	}
	return n, nil
}

// RecordOrder adds an order to the customer with the same phone, creating
// the customer on first purchase.
func (r *Repository) RecordOrder(ctx context.Context, info models.CustomerInfo, total float64, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"phone": info.Phone1},
		recordOrderUpdate(info, total, at),
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return apperr.Persistence("record customer order", err)
	}
	return nil
}

func recordOrderUpdate(info models.CustomerInfo, total float64, at time.Time) bson.M {
	return bson.M{
		"$inc": bson.M{"totalOrders": 1, "totalSpent": total},
		"$set": bson.M{"address": info.Address, "city": info.City},
		"$setOnInsert": bson.M{
			"_id":      utils.GetUUID(),
			"name":     info.Name,
			"email":    "",
			"status":   models.StatusActive,
			"joinDate": at,
		},
	}
}
