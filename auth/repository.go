package auth

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

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

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a models.Admin
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound(apperr.MsgNotFound)
	}
	if err != nil {
		return nil, apperr.Persistence("find admin", err)
	}
	return &a, nil
}

func (r *Repository) Create(ctx context.Context, a *models.Admin) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	a.ID = utils.GetUUID()
	if _, err := r.collection.InsertOne(ctx, a); err != nil {
		if db.IsDuplicateKey(err) {
			return apperr.Conflict("المشرف موجود مسبقاً")
		}
		return apperr.Persistence("insert admin", err)
	}
	return nil
}
