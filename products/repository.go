package products

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"shoestore/apperr"
	"shoestore/models"
	"shoestore/utils"
)

const (
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortNewest    = "newest"
	SortStock     = "stock"
)

// Filter selects a page of products.
type Filter struct {
	CategoryID string
	Status     string
	Search     string
	Sort       string
	Page       int
	Limit      int
}

func buildFilter(f Filter) bson.M {
	filter := bson.M{}
	if f.CategoryID != "" {
		filter["categoryId"] = f.CategoryID
	}
	if f.Status == models.StatusActive || f.Status == models.StatusInactive {
		filter["status"] = f.Status
	}
	if f.Search != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
	}
	return filter
}

func buildSort(sort string) bson.D {
	switch sort {
	case SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	case SortStock:
		return bson.D{{Key: "stock", Value: -1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}
	}
}

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(collection *mongo.Collection) *Repository {
	return &Repository{collection: collection}
}

func (r *Repository) Create(ctx context.Context, p *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.ID = utils.GetUUID()
	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		return apperr.Persistence("insert product", err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var p models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound(apperr.MsgProductNotFound)
	}
	if err != nil {
		return nil, apperr.Persistence("find product", err)
	}
	return &p, nil
}

// List returns one page and the total number of matches. The count runs
// alongside the page query.
func (r *Repository) List(ctx context.Context, f Filter) ([]models.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := buildFilter(f)
	opts := options.Find().SetSort(buildSort(f.Sort))
	if f.Page > 0 && f.Limit > 0 {
		opts.SetSkip(utils.QueryOptions{Page: f.Page, Limit: f.Limit}.Skip()).SetLimit(int64(f.Limit))
	} else {
		opts.SetLimit(100)
	}

	list := []models.Product{}
	total, err := countWhile(ctx,
		func(ctx context.Context) (int64, error) {
			n, err := r.collection.CountDocuments(ctx, filter)
			if err != nil {
				return 0, apperr.Persistence("count products", err)
			}
			return n, nil
		},
		func(ctx context.Context) error {
			cur, err := r.collection.Find(ctx, filter, opts)
			if err != nil {
				return apperr.Persistence("list products", err)
			}
			defer cur.Close(ctx)
			if err := cur.All(ctx, &list); err != nil {
				return apperr.Persistence("decode products", err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// countWhile runs count and fetch together. The first failure cancels the
// other and is returned.
func countWhile(ctx context.Context, count func(context.Context) (int64, error), fetch func(context.Context) error) (int64, error) {
	var total int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := count(gctx)
		total = n
		return err
	})
	g.Go(func() error {
		return fetch(gctx)
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return total, nil
}

// Replace overwrites every editable field of p.
func (r *Repository) Replace(ctx context.Context, p *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": bson.M{
		"name":         p.Name,
		"description":  p.Description,
		"price":        p.Price,
		"categoryId":   p.CategoryID,
		"image":        p.Image,
		"sizes":        p.Sizes,
		"colors":       p.Colors,
		"customColors": p.CustomColors,
		"stock":        p.Stock,
		"status":       p.Status,
		"updatedAt":    p.UpdatedAt,
	}})
	if err != nil {
		return apperr.Persistence("update product", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound(apperr.MsgProductNotFound)
	}
	return nil
}

func (r *Repository) SetStatus(ctx context.Context, id, status string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": at}})
	if err != nil {
		return apperr.Persistence("update product status", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound(apperr.MsgProductNotFound)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Persistence("delete product", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound(apperr.MsgProductNotFound)
	}
	return nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperr.Persistence("count products", err)
	}
	return n, nil
}
