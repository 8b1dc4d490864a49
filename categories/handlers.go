// Package categories manages the product categories shown in the
// storefront navigation.
package categories

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"shoestore/models"
	"shoestore/utils"
)

type Store interface {
	List(ctx context.Context, status string) ([]models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	FindByID(ctx context.Context, id string) (*models.Category, error)
	Update(ctx context.Context, id string, set bson.M) (*models.Category, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	store Store
	now   func() time.Time
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store, now: time.Now}
}

func (h *Handler) decode(r *http.Request) (models.Category, error) {
	var c models.Category
	if err := utils.DecodeJSON(r, &c); err != nil {
		return c, err
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
	return c, utils.ValidateStruct(c)
}

// List serves the storefront: active categories only.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, models.StatusActive)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, strings.TrimSpace(r.URL.Query().Get("status")))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, status string) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, err := h.store.List(ctx, status)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	c, err := h.decode(r)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	if c.Status == "" {
		c.Status = models.StatusActive
	}
	c.CreatedAt = h.now()
	c.UpdatedAt = c.CreatedAt

	if err := h.store.Create(ctx, &c); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	c, err := h.decode(r)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	set := bson.M{
		"name":        c.Name,
		"description": c.Description,
		"image":       c.Image,
		"updatedAt":   h.now(),
	}
	if c.Status != "" {
		set["status"] = c.Status
	}

	updated, err := h.store.Update(ctx, ps.ByName("id"), set)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
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

// ToggleStatus flips a category between active and inactive.
func (h *Handler) ToggleStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	c, err := h.store.FindByID(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	next := models.StatusInactive
	if c.Status == models.StatusInactive {
		next = models.StatusActive
	}

	updated, err := h.store.Update(ctx, c.ID, bson.M{"status": next, "updatedAt": h.now()})
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}
