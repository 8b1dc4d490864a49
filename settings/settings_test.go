package settings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoestore/models"
)

type memStore struct {
	doc   *models.Settings
	reads int
}

func (s *memStore) Get(_ context.Context) (*models.Settings, error) {
	s.reads++
	if s.doc == nil {
		d := Defaults()
		s.doc = &d
	}
	cp := *s.doc
	return &cp, nil
}

func (s *memStore) Save(_ context.Context, doc *models.Settings) error {
	cp := *doc
	s.doc = &cp
	return nil
}

func TestGetInitializesDefaults(t *testing.T) {
	store := &memStore{}
	h := NewHandler(store, nil)

	w := httptest.NewRecorder()
	h.Get(w, httptest.NewRequest(http.MethodGet, "/api/settings", nil), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var s models.Settings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, "متجر الأحذية", s.SiteName)
	assert.Equal(t, "ريال", s.Currency)
	assert.Equal(t, 15.0, s.TaxRate)
	assert.Equal(t, 30.0, s.ShippingCost)
	assert.NotContains(t, w.Body.String(), "general", "document id stays internal")
}

func TestUpdate(t *testing.T) {
	store := &memStore{}
	h := NewHandler(store, nil)

	body := `{"siteName":"خطوة","currency":"ريال","taxRate":5,"shippingCost":0,"contactEmail":"info@shop.test"}`
	w := httptest.NewRecorder()
	h.Update(w, httptest.NewRequest(http.MethodPut, "/api/dashboard/settings", strings.NewReader(body)), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "خطوة", store.doc.SiteName)
	assert.Equal(t, documentID, store.doc.ID)

	for name, bad := range map[string]string{
		"tax":      `{"siteName":"خطوة","currency":"ريال","taxRate":120}`,
		"shipping": `{"siteName":"خطوة","currency":"ريال","shippingCost":-1}`,
		"email":    `{"siteName":"خطوة","currency":"ريال","contactEmail":"nope"}`,
		"name":     `{"siteName":"  ","currency":"ريال"}`,
	} {
		w := httptest.NewRecorder()
		h.Update(w, httptest.NewRequest(http.MethodPut, "/", strings.NewReader(bad)), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
	assert.Equal(t, "خطوة", store.doc.SiteName)
}
