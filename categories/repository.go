package categories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shoestore/apperr"
	"shoestore/models"
	"shoestore/utils"
)

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(collection *mongo.Collection) *Repository {
	return &Repository{collection: collection}
}

// List returns categories sorted by name. status narrows the result when
// set.
func (r *Repository) List(ctx context.Context, status string) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	cur, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, apperr.Persistence("list categories", err)
	}
	defer cur.Close(ctx)

	out := []models.Category{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Persistence("decode categories", err)
	}
	return out, nil
}

func (r *Repository) Create(ctx context.Context, c *models.Category) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c.ID = utils.GetUUID()
	if _, err := r.collection.InsertOne(ctx, c); err != nil {
		return apperr.Persistence("insert category", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, id string, set bson.M) (*models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c models.Category
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound(apperr.MsgNotFound)
	}
	if err != nil {
		return nil, apperr.Persistence("update category", err)
	}
	return &c, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var c models.Category
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound(apperr.MsgNotFound)
	}
	if err != nil {
		return nil, apperr.Persistence("find category", err)
	}
	return &c, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Persistence("delete category", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound(apperr.MsgNotFound)
	}
	return nil
}
