// Package products serves the shoe catalog: the storefront listing and
// detail pages, and product management for the dashboard.
package products

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"shoestore/apperr"
	"shoestore/filemgr"
	"shoestore/inventory"
	"shoestore/models"
	"shoestore/rdx"
	"shoestore/utils"
)

type Store interface {
	Create(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, f Filter) ([]models.Product, int64, error)
	Replace(ctx context.Context, p *models.Product) error
	SetStatus(ctx context.Context, id, status string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	store  Store
	cache  *rdx.Cache
	images filemgr.Storage
	now    func() time.Time
}

func NewHandler(store Store, cache *rdx.Cache, images filemgr.Storage) *Handler {
	return &Handler{store: store, cache: cache, images: images, now: time.Now}
}

type productInput struct {
	Name         string                 `json:"name" validate:"required,min=2"`
	Description  string                 `json:"description"`
	Price        float64                `json:"price" validate:"gt=0"`
	CategoryID   string                 `json:"categoryId"`
	Image        string                 `json:"image"`
	Sizes        []int                  `json:"sizes"`
	Colors       []models.ColorQuantity `json:"colors"`
	CustomColors []models.ColorQuantity `json:"customColors"`
	Status       string                 `json:"status" validate:"omitempty,oneof=active inactive"`
}

type listResponse struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

func (in productInput) variant() (models.Variant, int) {
	return inventory.Normalize(models.Variant{
		Sizes:        in.Sizes,
		Colors:       in.Colors,
		CustomColors: in.CustomColors,
	})
}

// validate checks the struct tags, then requires at least one size and one
// color once the variants are normalized.
func (in productInput) validate() error {
	if err := utils.ValidateStruct(in); err != nil {
		return err
	}
	v, _ := in.variant()
	return inventory.Validate(v)
}

// apply copies in onto p and derives the stock from the variants.
func apply(p *models.Product, in productInput) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = strings.TrimSpace(in.Description)
	p.Price = in.Price
	p.CategoryID = strings.TrimSpace(in.CategoryID)
	if in.Image != "" {
		p.Image = in.Image
	}
	p.Variant, p.Stock = in.variant()
	if in.Status != "" {
		p.Status = in.Status
	}
	if p.Status == "" {
		p.Status = models.StatusActive
	}
}

// readInput accepts a JSON body, or a multipart form whose "data" field
// holds the JSON and whose "image" field holds an optional upload.
func (h *Handler) readInput(ctx context.Context, r *http.Request) (productInput, error) {
	var in productInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := utils.DecodeJSON(r, &in); err != nil {
			return in, err
		}
		return in, in.validate()
	}

	if err := r.ParseMultipartForm(filemgr.MaxImageSize + 1<<20); err != nil {
		return in, apperr.Validation("", apperr.MsgInvalidBody)
	}
	if err := json.Unmarshal([]byte(r.FormValue("data")), &in); err != nil {
		return in, apperr.Validation("data", apperr.MsgInvalidBody)
	}
	if err := in.validate(); err != nil {
		return in, err
	}

	url, err := filemgr.SaveFormImage(ctx, h.images, r, "image", filemgr.EntityProduct, false)
	if err != nil {
		return in, err
	}
	if url != "" {
		in.Image = url
	}
	return in, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, status string) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := utils.ParseQueryOptions(r)
	list, total, err := h.store.List(ctx, Filter{
		CategoryID: strings.TrimSpace(r.URL.Query().Get("category")),
		Status:     status,
		Search:     strings.TrimSpace(r.URL.Query().Get("q")),
		Sort:       q.Sort,
		Page:       q.Page,
		Limit:      q.Limit,
	})
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, listResponse{Products: list, Total: total, Page: q.Page, Limit: q.Limit})
}

// List is the storefront catalog. Only active products are shown.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, models.StatusActive)
}

// AdminList includes inactive products; ?status= narrows it.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, utils.ParseQueryOptions(r).Status)
}

// Get serves a product page. Inactive products read as missing.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := ps.ByName("id")

	var p models.Product
	if !h.cache.Get(ctx, id, &p) {
		found, err := h.store.FindByID(ctx, id)
		if err != nil {
			utils.RespondWithErr(w, r, err)
			return
		}
		p = *found
		if err := h.cache.Set(ctx, id, p); err != nil {
			zap.L().Warn("cache product", zap.String("product_id", id), zap.Error(err))
		}
	}

	if !p.Active() {
		utils.RespondWithErr(w, r, apperr.NotFound(apperr.MsgProductNotFound))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	in, err := h.readInput(ctx, r)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	now := h.now()
	p := &models.Product{CreatedAt: now, UpdatedAt: now}
	apply(p, in)

	if err := h.store.Create(ctx, p); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	zap.L().Info("product created", zap.String("product_id", p.ID), zap.Int("stock", p.Stock))
	utils.RespondWithJSON(w, http.StatusCreated, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	p, err := h.store.FindByID(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	in, err := h.readInput(ctx, r)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	apply(p, in)
	p.UpdatedAt = h.now()
	if err := h.store.Replace(ctx, p); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	h.invalidate(ctx, p.ID)
	utils.RespondWithJSON(w, http.StatusOK, p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := ps.ByName("id")
	if err := h.store.Delete(ctx, id); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	h.invalidate(ctx, id)
	zap.L().Info("product deleted", zap.String("product_id", id))
	w.WriteHeader(http.StatusNoContent)
}

type statusRequest struct {
	Status string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ToggleStatus sets the requested status, or flips the current one when
// the body names none.
func (h *Handler) ToggleStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req statusRequest
	if r.ContentLength != 0 {
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondWithErr(w, r, err)
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			utils.RespondWithErr(w, r, err)
			return
		}
	}

	p, err := h.store.FindByID(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusActive
		if p.Active() {
			status = models.StatusInactive
		}
	}

	p.Status, p.UpdatedAt = status, h.now()
	if err := h.store.SetStatus(ctx, p.ID, p.Status, p.UpdatedAt); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	h.invalidate(ctx, p.ID)
	utils.RespondWithJSON(w, http.StatusOK, p)
}

type optionsResponse struct {
	Sizes   []int    `json:"sizes"`
	Palette []string `json:"palette"`
}

// Options lists the sizes and palette colors the product form offers.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, optionsResponse{Sizes: inventory.Sizes(), Palette: inventory.Palette})
}

func (h *Handler) invalidate(ctx context.Context, id string) {
	if err := h.cache.Del(ctx, id); err != nil {
		zap.L().Warn("invalidate product cache", zap.String("product_id", id), zap.Error(err))
	}
}
