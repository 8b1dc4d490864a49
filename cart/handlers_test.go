package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoestore/apperr"
	"shoestore/globals"
	"shoestore/models"
)

type fakeProducts map[string]*models.Product

func (f fakeProducts) FindByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := f[id]
	if !ok {
		return nil, apperr.NotFound(apperr.MsgProductNotFound)
	}
	return p, nil
}

func catalog() fakeProducts {
	return fakeProducts{
		"boot": {
			ID: "boot", Name: "حذاء جلد", Price: 250, Image: "/static/uploads/product/photo/boot.jpg",
			Variant: models.Variant{
				Sizes:  []int{41, 42},
				Colors: []models.ColorQuantity{{Color: "black", Quantity: 3}, {Color: "brown", Quantity: 0}},
			},
			Stock: 3, Status: models.StatusActive,
		},
		"soldout": {
			ID: "soldout", Price: 99, Status: models.StatusActive,
			Variant: models.Variant{Sizes: []int{40}, Colors: []models.ColorQuantity{{Color: "red"}}},
		},
		"hidden": {ID: "hidden", Price: 10, Stock: 5, Status: models.StatusInactive},
	}
}

func do(t *testing.T, h func(http.ResponseWriter, *http.Request), method, target, body string) (*httptest.ResponseRecorder, View) {
	t.Helper()
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r = r.WithContext(context.WithValue(r.Context(), globals.SessionIDKey, "sid-test"))
	w := httptest.NewRecorder()
	h(w, r)

	var v View
	if w.Code < 300 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	}
	return w, v
}

func TestAddItemPricesFromCatalog(t *testing.T) {
	h := NewHandler(NewMemoryStore(), catalog())

	w, v := do(t, func(w http.ResponseWriter, r *http.Request) { h.AddItem(w, r, nil) },
		http.MethodPost, "/api/cart/items", `{"productId":"boot","size":42,"color":"black","quantity":2}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, v.Items, 1)
	assert.Equal(t, 250.0, v.Items[0].UnitPrice)
	assert.Equal(t, "حذاء جلد", v.Items[0].Name)
	assert.Equal(t, 500.0, v.Total)

	_, v = do(t, func(w http.ResponseWriter, r *http.Request) { h.AddItem(w, r, nil) },
		http.MethodPost, "/api/cart/items", `{"productId":"boot","size":42,"color":"black"}`)
	require.Len(t, v.Items, 1)
	assert.Equal(t, 3, v.ItemCount)
}

func TestAddItemGuards(t *testing.T) {
	h := NewHandler(NewMemoryStore(), catalog())
	add := func(w http.ResponseWriter, r *http.Request) { h.AddItem(w, r, nil) }

	cases := []struct {
		name string
		body string
		code int
	}{
		{"missing product", `{"productId":"","size":42,"color":"black"}`, http.StatusBadRequest},
		{"unknown product", `{"productId":"ghost","size":42,"color":"black"}`, http.StatusNotFound},
		{"inactive product", `{"productId":"hidden","size":42,"color":"black"}`, http.StatusNotFound},
		{"out of stock", `{"productId":"soldout","size":40,"color":"red"}`, http.StatusBadRequest},
		{"size not offered", `{"productId":"boot","size":36,"color":"black"}`, http.StatusBadRequest},
		{"color without stock", `{"productId":"boot","size":42,"color":"brown"}`, http.StatusBadRequest},
		{"zero quantity", `{"productId":"boot","size":42,"color":"black","quantity":0}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, _ := do(t, add, http.MethodPost, "/api/cart/items", tc.body)
			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func TestUpdateRemoveClear(t *testing.T) {
	store := NewMemoryStore()
	h := NewHandler(store, catalog())

	do(t, func(w http.ResponseWriter, r *http.Request) { h.AddItem(w, r, nil) },
		http.MethodPost, "/api/cart/items", `{"productId":"boot","size":42,"color":"black","quantity":2}`)

	_, v := do(t, func(w http.ResponseWriter, r *http.Request) { h.UpdateItem(w, r, nil) },
		http.MethodPatch, "/api/cart/items", `{"productId":"boot","size":42,"color":"black","quantity":0}`)
	require.Len(t, v.Items, 1)
	assert.Equal(t, 1, v.Items[0].Quantity)

	_, v = do(t, func(w http.ResponseWriter, r *http.Request) { h.RemoveItem(w, r, nil) },
		http.MethodDelete, "/api/cart/items?productId=boot&size=41&color=black", "")
	assert.Len(t, v.Items, 1, "absent key leaves the cart alone")

	_, v = do(t, func(w http.ResponseWriter, r *http.Request) { h.RemoveItem(w, r, nil) },
		http.MethodDelete, "/api/cart/items?productId=boot&size=42&color=black", "")
	assert.Empty(t, v.Items)

	do(t, func(w http.ResponseWriter, r *http.Request) { h.AddItem(w, r, nil) },
		http.MethodPost, "/api/cart/items", `{"productId":"boot","size":41,"color":"black"}`)
	w, v := do(t, func(w http.ResponseWriter, r *http.Request) { h.ClearCart(w, r, nil) },
		http.MethodDelete, "/api/cart", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, v.Items)

	c, err := store.Load(context.Background(), "sid-test")
	require.NoError(t, err)
	assert.True(t, c.Empty())
}
