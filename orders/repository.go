package orders

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shoestore/apperr"
	"shoestore/models"
	"shoestore/utils"
)

type ListFilter struct {
	Status models.OrderStatus
	Page   int
	Limit  int
}

type Stats struct {
	TotalOrders  int64                        `json:"totalOrders"`
	TotalRevenue float64                      `json:"totalRevenue"`
	ByStatus     map[models.OrderStatus]int64 `json:"ordersByStatus"`
}

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(collection *mongo.Collection) *Repository {
	return &Repository{collection: collection}
}

// Insert stores a new order and assigns its id.
func (r *Repository) Insert(ctx context.Context, o *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if o.ID == "" {
		o.ID = utils.GetUUID()
	}
	if _, err := r.collection.InsertOne(ctx, o); err != nil {
		return apperr.Persistence("insert order", err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var o models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound(apperr.MsgOrderNotFound)
	}
	if err != nil {
		return nil, apperr.Persistence("find order", err)
	}
	return &o, nil
}

// List returns a page of orders, newest first, and the total match count.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]models.Order, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Persistence("count orders", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if f.Limit > 0 {
		opts.SetSkip(utils.QueryOptions{Page: max(f.Page, 1), Limit: f.Limit}.Skip()).SetLimit(int64(f.Limit))
	}

	cur, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperr.Persistence("list orders", err)
	}
	defer cur.Close(ctx)

	out := []models.Order{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, apperr.Persistence("decode orders", err)
	}
	return out, total, nil
}

// UpdateStatus writes the new status only if the stored status is still
// from, so two admins cannot both move the same order.
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": at}},
	)
	if err != nil {
		return apperr.Persistence("update order status", err)
	}
	if res.MatchedCount == 0 {
		return apperr.Conflict(apperr.MsgBadTransition)
	}
	return nil
}

// Stats counts orders per status and sums revenue of orders that were not
// cancelled.
func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$total"}}},
		}}},
	}
	cur, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return Stats{}, apperr.Persistence("aggregate orders", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status  models.OrderStatus `bson:"_id"`
		Count   int64              `bson:"count"`
		Revenue float64            `bson:"revenue"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return Stats{}, apperr.Persistence("decode order stats", err)
	}

	revenue := decimal.Zero
	st := Stats{ByStatus: make(map[models.OrderStatus]int64, len(statuses))}
	for _, s := range statuses {
		st.ByStatus[s] = 0
	}
	for _, row := range rows {
		st.TotalOrders += row.Count
		st.ByStatus[row.Status] += row.Count
		if row.Status != models.OrderCancelled {
			revenue = revenue.Add(decimal.NewFromFloat(row.Revenue))
		}
	}
	st.TotalRevenue = revenue.Round(2).InexactFloat64()
	return st, nil
}
