package checkout

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoestore/apperr"
	"shoestore/cart"
	"shoestore/globals"
	"shoestore/models"
	"shoestore/mq"
)

type fakeOrders struct {
	mu     sync.Mutex
	stored []*models.Order
	fail   error
}

func (f *fakeOrders) Insert(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return apperr.Persistence("insert order", f.fail)
	}
	o.ID = "ord-1"
	f.stored = append(f.stored, o)
	return nil
}

type fakeCustomers struct {
	phones []string
	totals []float64
}

func (f *fakeCustomers) RecordOrder(_ context.Context, info models.CustomerInfo, total float64, _ time.Time) error {
	f.phones = append(f.phones, info.Phone1)
	f.totals = append(f.totals, total)
	return nil
}

type fakeProducts map[string]*models.Product

func product(id string, price float64, size int, color string, qty int) *models.Product {
	return &models.Product{
		ID:     id,
		Name:   id,
		Price:  price,
		Status: models.StatusActive,
		Stock:  qty,
		Variant: models.Variant{
			Sizes:  []int{size},
			Colors: []models.ColorQuantity{{Color: color, Quantity: qty}},
		},
	}
}

// catalog sells the lines of filledCart.
func catalog() fakeProducts {
	return fakeProducts{
		"a": product("a", 100, 40, "red", 3),
		"b": product("b", 50, 41, "blue", 5),
	}
}

func (f fakeProducts) FindByID(_ context.Context, id string) (*models.Product, error) {
	if p, ok := f[id]; ok {
		return p, nil
	}
	return nil, apperr.NotFound(apperr.MsgProductNotFound)
}

func seededStore(t *testing.T, sid string) *cart.MemoryStore {
	t.Helper()
	s := cart.NewMemoryStore()
	require.NoError(t, s.Save(context.Background(), sid, filledCart(t)))
	return s
}

func TestPlaceOrderClearsCartAfterPersisting(t *testing.T) {
	ctx := context.Background()
	carts := seededStore(t, "sid")
	orders := &fakeOrders{}
	customers := &fakeCustomers{}
	events := make(chan mq.Event, 1)
	svc := NewService(carts, catalog(), orders, customers, mq.NewLocalBus(func(e mq.Event) { events <- e }))

	o, err := svc.PlaceOrder(ctx, "sid", validInfo())
	require.NoError(t, err)
	assert.Equal(t, "ord-1", o.ID)
	assert.Equal(t, 200.0, o.Total)
	require.Len(t, orders.stored, 1)

	c, err := carts.Load(ctx, "sid")
	require.NoError(t, err)
	assert.True(t, c.Empty())

	assert.Equal(t, []string{"0500000000"}, customers.phones)
	assert.Equal(t, []float64{200}, customers.totals)

	select {
	case e := <-events:
		assert.Equal(t, mq.OrderCreated, e.Type)
		assert.Equal(t, "ord-1", e.OrderID)
	case <-time.After(time.Second):
		t.Fatal("no order event")
	}
}

func TestPlaceOrderKeepsCartOnPersistenceError(t *testing.T) {
	ctx := context.Background()
	carts := seededStore(t, "sid")
	svc := NewService(carts, catalog(), &fakeOrders{fail: errors.New("quota exceeded")}, nil, nil)

	o, err := svc.PlaceOrder(ctx, "sid", validInfo())
	assert.Nil(t, o)
	assert.True(t, apperr.Is(err, apperr.KindPersistence))

	c, err := carts.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Len(t, c.Items, 2)
}

func TestPlaceOrderValidationLeavesCart(t *testing.T) {
	ctx := context.Background()
	carts := seededStore(t, "sid")
	orders := &fakeOrders{}
	svc := NewService(carts, catalog(), orders, nil, nil)

	info := validInfo()
	info.Street = ""
	_, err := svc.PlaceOrder(ctx, "sid", info)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Empty(t, orders.stored)

	c, _ := carts.Load(ctx, "sid")
	assert.Len(t, c.Items, 2)

	_, err = svc.PlaceOrder(ctx, "empty-session", validInfo())
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func withSession(r *http.Request, sid string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), globals.SessionIDKey, sid))
}

func TestPlaceOrderHandler(t *testing.T) {
	carts := seededStore(t, "sid")
	h := NewHandler(NewService(carts, catalog(), &fakeOrders{}, nil, nil), catalog())

	body := `{"name":"سارة","address":"حي النخيل","city":"الرياض","street":"12","phone1":"0500"}`
	r := withSession(httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body)), "sid")
	w := httptest.NewRecorder()
	h.PlaceOrder(w, r, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"pending"`)
	assert.Contains(t, w.Body.String(), `"total":200`)

	r = withSession(httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body)), "sid")
	w = httptest.NewRecorder()
	h.PlaceOrder(w, r, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "cart was emptied by the first checkout")
}

func TestCreateManualPricesFromCatalog(t *testing.T) {
	orders := &fakeOrders{}
	products := fakeProducts{"boot": product("boot", 120, 42, "black", 4)}
	products["boot"].Name = "حذاء"
	h := NewHandler(NewService(cart.NewMemoryStore(), products, orders, nil, nil), products)

	body := `{"customerInfo":{"name":"علي","address":"a","city":"b","street":"c","phone1":"0511"},
		"items":[{"productId":"boot","size":42,"color":"black","quantity":2},{"productId":"boot","size":42,"color":"black","quantity":1}]}`
	w := httptest.NewRecorder()
	h.CreateManual(w, httptest.NewRequest(http.MethodPost, "/api/dashboard/orders", strings.NewReader(body)), nil)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, orders.stored, 1)
	assert.Equal(t, 360.0, orders.stored[0].Total)
	assert.Len(t, orders.stored[0].Items, 1)

	body = `{"customerInfo":{"name":"علي","address":"a","city":"b","street":"c","phone1":"0511"},"items":[{"productId":"ghost","quantity":1}]}`
	w = httptest.NewRecorder()
	h.CreateManual(w, httptest.NewRequest(http.MethodPost, "/api/dashboard/orders", strings.NewReader(body)), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	for name, line := range map[string]string{
		"no size":     `{"productId":"boot","color":"black","quantity":1}`,
		"no color":    `{"productId":"boot","size":42,"quantity":1}`,
		"wrong color": `{"productId":"boot","size":42,"color":"red","quantity":1}`,
	} {
		body = `{"customerInfo":{"name":"علي","address":"a","city":"b","street":"c","phone1":"0511"},"items":[` + line + `]}`
		w = httptest.NewRecorder()
		h.CreateManual(w, httptest.NewRequest(http.MethodPost, "/api/dashboard/orders", strings.NewReader(body)), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}

	products["boot"].Status = models.StatusInactive
	body = `{"customerInfo":{"name":"علي","address":"a","city":"b","street":"c","phone1":"0511"},"items":[{"productId":"boot","size":42,"color":"black","quantity":1}]}`
	w = httptest.NewRecorder()
	h.CreateManual(w, httptest.NewRequest(http.MethodPost, "/api/dashboard/orders", strings.NewReader(body)), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Len(t, orders.stored, 1)
}

func TestPlaceOrderRechecksAvailability(t *testing.T) {
	cases := map[string]func(p fakeProducts){
		"deactivated": func(p fakeProducts) { p["a"].Status = models.StatusInactive },
		"sold out": func(p fakeProducts) {
			p["a"].Stock = 0
			p["a"].Colors[0].Quantity = 0
		},
		"color gone": func(p fakeProducts) { p["b"].Colors[0].Quantity = 0 },
		"size gone":  func(p fakeProducts) { p["b"].Sizes = []int{44} },
		"deleted":    func(p fakeProducts) { delete(p, "a") },
	}
	for name, change := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			carts := seededStore(t, "sid")
			products := catalog()
			orders := &fakeOrders{}
			svc := NewService(carts, products, orders, nil, nil)

			change(products)
			o, err := svc.PlaceOrder(ctx, "sid", validInfo())
			assert.Nil(t, o)
			assert.True(t, apperr.Is(err, apperr.KindValidation), "%v", err)
			assert.Equal(t, "items", apperr.FieldOf(err))
			assert.Empty(t, orders.stored)

			c, err := carts.Load(ctx, "sid")
			require.NoError(t, err)
			assert.Len(t, c.Items, 2)
		})
	}
}
