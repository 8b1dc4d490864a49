// Package carousel manages the home page hero slides.
package carousel

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"shoestore/apperr"
	"shoestore/filemgr"
	"shoestore/models"
	"shoestore/utils"
)

type Store interface {
	List(ctx context.Context, activeOnly bool) ([]models.CarouselSlide, error)
	Create(ctx context.Context, s *models.CarouselSlide) error
	FindByID(ctx context.Context, id string) (*models.CarouselSlide, error)
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	store  Store
	images filemgr.Storage
	now    func() time.Time
}

func NewHandler(store Store, images filemgr.Storage) *Handler {
	return &Handler{store: store, images: images, now: time.Now}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, true)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, false)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	slides, err := h.store.List(ctx, activeOnly)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, slides)
}

// Create adds a slide from a multipart form. The image may be uploaded in
// the "image" field or given as a URL in the field of the same name.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := r.ParseMultipartForm(filemgr.MaxImageSize + 1<<20); err != nil {
		utils.RespondWithErr(w, r, apperr.Validation("", apperr.MsgInvalidBody))
		return
	}

	now := h.now()
	s := models.CarouselSlide{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Link:        strings.TrimSpace(r.FormValue("link")),
		Image:       strings.TrimSpace(r.FormValue("image")),
		IsActive:    r.FormValue("isActive") != "false",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if v := r.FormValue("order"); v != "" {
		order, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondWithErr(w, r, apperr.Validation("order", apperr.MsgInvalidBody))
			return
		}
		s.Order = order
	}
	if err := utils.ValidateStruct(s); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	url, err := filemgr.SaveFormImage(ctx, h.images, r, "image", filemgr.EntityCarousel, s.Image == "")
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	if url != "" {
		s.Image = url
	}

	if err := h.store.Create(ctx, &s); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	zap.L().Info("carousel slide added", zap.String("slide_id", s.ID))
	utils.RespondWithJSON(w, http.StatusCreated, s)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.store.Delete(ctx, ps.ByName("id")); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ToggleActive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	s, err := h.store.FindByID(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	s.IsActive, s.UpdatedAt = !s.IsActive, h.now()
	if err := h.store.SetActive(ctx, s.ID, s.IsActive, s.UpdatedAt); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, s)
}
