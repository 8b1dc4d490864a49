// Package dashboard serves the overview numbers on the dashboard home.
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"

	"shoestore/models"
	"shoestore/orders"
	"shoestore/utils"
)

const recentOrders = 5

type OrderStats interface {
	Stats(ctx context.Context) (orders.Stats, error)
	List(ctx context.Context, f orders.ListFilter) ([]models.Order, int64, error)
}

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type Stats struct {
	TotalOrders    int                          `json:"totalOrders"`
	TotalRevenue   float64                      `json:"totalRevenue"`
	TotalCustomers int64                        `json:"totalCustomers"`
	TotalProducts  int64                        `json:"totalProducts"`
	OrdersByStatus map[models.OrderStatus]int64 `json:"ordersByStatus"`
	RecentOrders   []models.Order               `json:"recentOrders"`
}

type Handler struct {
	orders    OrderStats
	customers Counter
	products  Counter
}

func NewHandler(orders OrderStats, customers, products Counter) *Handler {
	return &Handler{orders: orders, customers: customers, products: products}
}

// Collect runs the four queries concurrently.
func (h *Handler) Collect(ctx context.Context) (*Stats, error) {
	var (
		st     orders.Stats
		recent []models.Order
		out    Stats
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st, err = h.orders.Stats(ctx)
		return err
	})
	g.Go(func() (err error) {
		recent, _, err = h.orders.List(ctx, orders.ListFilter{Page: 1, Limit: recentOrders})
		return err
	})
	g.Go(func() (err error) {
		out.TotalCustomers, err = h.customers.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.TotalProducts, err = h.products.Count(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.TotalOrders = int(st.TotalOrders)
	out.TotalRevenue = st.TotalRevenue
	out.OrdersByStatus = st.ByStatus
	out.RecentOrders = recent
	if out.RecentOrders == nil {
		out.RecentOrders = []models.Order{}
	}
	return &out, nil
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	st, err := h.Collect(ctx)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, st)
}
