// Package customers keeps the dashboard's customer book. Records are also
// created and updated by checkout.
package customers

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
	List(ctx context.Context, search, status string) ([]models.Customer, error)
	FindByID(ctx context.Context, id string) (*models.Customer, error)
	Create(ctx context.Context, c *models.Customer) error
	Update(ctx context.Context, id string, set bson.M) (*models.Customer, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	store Store
	now   func() time.Time
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store, now: time.Now}
}

func normalize(c *models.Customer) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(strings.ToLower(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.City = strings.TrimSpace(c.City)
}

func (h *Handler) decode(r *http.Request) (models.Customer, error) {
	var c models.Customer
	if err := utils.DecodeJSON(r, &c); err != nil {
		return c, err
	}
	normalize(&c)
	return c, utils.ValidateStruct(c)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := r.URL.Query()
	list, err := h.store.List(ctx, q.Get("q"), strings.TrimSpace(q.Get("status")))
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
	c.TotalOrders, c.TotalSpent = 0, 0
	c.JoinDate = h.now()

	if err := h.store.Create(ctx, &c); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, c)
}

// Update edits contact details. Order totals are owned by checkout and
// cannot be set here.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	c, err := h.decode(r)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	set := bson.M{
		"name":    c.Name,
		"email":   c.Email,
		"phone":   c.Phone,
		"address": c.Address,
		"city":    c.City,
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
	updated, err := h.store.Update(ctx, c.ID, bson.M{"status": next})
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}
