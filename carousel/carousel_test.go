package carousel

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoestore/apperr"
	"shoestore/filemgr"
	"shoestore/models"
)

type memStore struct {
	slides []models.CarouselSlide
}

func (s *memStore) List(_ context.Context, activeOnly bool) ([]models.CarouselSlide, error) {
	out := []models.CarouselSlide{}
	for _, sl := range s.slides {
		if !activeOnly || sl.IsActive {
			out = append(out, sl)
		}
	}
	return out, nil
}

func (s *memStore) Create(_ context.Context, sl *models.CarouselSlide) error {
	sl.ID = sl.Title
	s.slides = append(s.slides, *sl)
	return nil
}

func (s *memStore) FindByID(_ context.Context, id string) (*models.CarouselSlide, error) {
	for _, sl := range s.slides {
		if sl.ID == id {
			return &sl, nil
		}
	}
	return nil, apperr.NotFound(apperr.MsgNotFound)
}

func (s *memStore) SetActive(_ context.Context, id string, active bool, _ time.Time) error {
	for i := range s.slides {
		if s.slides[i].ID == id {
			s.slides[i].IsActive = active
			return nil
		}
	}
	return apperr.NotFound(apperr.MsgNotFound)
}

func (s *memStore) Delete(_ context.Context, id string) error {
	for i := range s.slides {
		if s.slides[i].ID == id {
			s.slides = append(s.slides[:i], s.slides[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound(apperr.MsgNotFound)
}

func form(t *testing.T, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	r := httptest.NewRequest(http.MethodPost, "/api/dashboard/carousel", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestCreateWithImageURL(t *testing.T) {
	store := &memStore{}
	h := NewHandler(store, filemgr.NewLocalStorage(t.TempDir(), "/u"))

	w := httptest.NewRecorder()
	h.Create(w, form(t, map[string]string{
		"title": "تخفيضات", "image": "https://cdn.test/a.jpg", "order": "2",
	}), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var s models.CarouselSlide
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, "https://cdn.test/a.jpg", s.Image)
	assert.Equal(t, 2, s.Order)
	assert.True(t, s.IsActive)
}

func TestCreateRequiresTitleAndImage(t *testing.T) {
	h := NewHandler(&memStore{}, filemgr.NewLocalStorage(t.TempDir(), "/u"))

	w := httptest.NewRecorder()
	h.Create(w, form(t, map[string]string{"image": "https://cdn.test/a.jpg"}), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"title"`)

	w = httptest.NewRecorder()
	h.Create(w, form(t, map[string]string{"title": "بدون صورة"}), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"image"`)
}

func TestToggleAndStorefrontList(t *testing.T) {
	store := &memStore{slides: DefaultSlides(time.Now())}
	for i := range store.slides {
		store.slides[i].ID = string(rune('a' + i))
	}
	h := NewHandler(store, nil)

	w := httptest.NewRecorder()
	h.ToggleActive(w, httptest.NewRequest(http.MethodPatch, "/", nil), httprouter.Params{{Key: "id", Value: "b"}})
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/api/carousel", nil), nil)
	var slides []models.CarouselSlide
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &slides))
	assert.Len(t, slides, 2)

	w = httptest.NewRecorder()
	h.AdminList(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &slides))
	assert.Len(t, slides, 3)

	w = httptest.NewRecorder()
	h.Delete(w, httptest.NewRequest(http.MethodDelete, "/", nil), httprouter.Params{{Key: "id", Value: "a"}})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDefaultSlides(t *testing.T) {
	slides := DefaultSlides(time.Now())
	require.Len(t, slides, 3)
	for i, s := range slides {
		assert.Equal(t, i, s.Order)
		assert.True(t, s.IsActive)
		assert.NotEmpty(t, s.Title)
		assert.Equal(t, "/products", s.Link)
	}
}
