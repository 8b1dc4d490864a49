package carousel

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

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

// List returns slides by display order. activeOnly hides disabled slides.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]models.CarouselSlide, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: 1}})

	cur, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Persistence("list slides", err)
	}
	defer cur.Close(ctx)

	out := []models.CarouselSlide{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Persistence("decode slides", err)
	}
	return out, nil
}

func (r *Repository) Create(ctx context.Context, s *models.CarouselSlide) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s.ID = utils.GetUUID()
	if _, err := r.collection.InsertOne(ctx, s); err != nil {
		return apperr.Persistence("insert slide", err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.CarouselSlide, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s models.CarouselSlide
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound(apperr.MsgNotFound)
	}
	if err != nil {
		return nil, apperr.Persistence("find slide", err)
	}
	return &s, nil
}

func (r *Repository) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"isActive": active, "updatedAt": at}})
	if err != nil {
		return apperr.Persistence("update slide", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound(apperr.MsgNotFound)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Persistence("delete slide", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound(apperr.MsgNotFound)
	}
	return nil
}

// Seed inserts the default slides when the collection is empty.
func (r *Repository) Seed(ctx context.Context, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	n, err := r.collection.EstimatedDocumentCount(ctx)
	if err != nil {
		return apperr.Persistence("count slides", err)
	}
	if n > 0 {
		return nil
	}

	docs := make([]any, 0, 3)
	for _, s := range DefaultSlides(now) {
		s.ID = utils.GetUUID()
		docs = append(docs, s)
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return apperr.Persistence("seed slides", err)
	}
	zap.L().Info("seeded carousel", zap.Int("slides", len(docs)))
	return nil
}

func DefaultSlides(now time.Time) []models.CarouselSlide {
	slide := func(order int, title, description, image string) models.CarouselSlide {
		return models.CarouselSlide{
			Title:       title,
			Description: description,
			Image:       image,
			Link:        "/products",
			IsActive:    true,
			Order:       order,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}
	return []models.CarouselSlide{
		slide(0, "أحذية عصرية", "اكتشف مجموعتنا المميزة من الأحذية العصرية بأحدث التصاميم",
			"https://images.unsplash.com/photo-1549298916-b41d0d673796?q=80&w=2070&auto=format&fit=crop"),
		slide(1, "عروض خاصة", "خصومات تصل إلى 50% على مجموعة مختارة من الأحذية",
			"https://images.unsplash.com/photo-1595950653106-6c9ebd614d3a?q=80&w=1974&auto=format&fit=crop"),
		slide(2, "أحذية رياضية", "أحذية رياضية عالية الجودة للراحة والأداء المثالي",
			"https://images.unsplash.com/photo-1556906781-9a412961c28c?q=80&w=1974&auto=format&fit=crop"),
	}
}
