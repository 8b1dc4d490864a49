// Package favorites keeps the products a visitor has marked, per session.
package favorites

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"shoestore/apperr"
	"shoestore/cart"
	"shoestore/models"
	"shoestore/utils"
)

type Handler struct {
	store    Store
	products cart.ProductFinder
}

func NewHandler(store Store, products cart.ProductFinder) *Handler {
	return &Handler{store: store, products: products}
}

type listResponse struct {
	Products []models.Product `json:"products"`
	Count    int              `json:"count"`
}

type toggleResponse struct {
	ProductID string `json:"productId"`
	Favorite  bool   `json:"favorite"`
	Count     int64  `json:"count"`
}

// List returns the favorite products that still exist and are active.
// Ids of removed products are pruned from the set.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sid := utils.GetSessionID(r)
	ids, err := h.store.List(ctx, sid)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	resp := listResponse{Products: []models.Product{}}
	for _, id := range ids {
		p, err := h.products.FindByID(ctx, id)
		if apperr.Is(err, apperr.KindNotFound) {
			if err := h.store.Remove(ctx, sid, id); err != nil {
				zap.L().Warn("prune favorite", zap.String("product_id", id), zap.Error(err))
			}
			continue
		}
		if err != nil {
			utils.RespondWithErr(w, r, err)
			return
		}
		if p.Active() {
			resp.Products = append(resp.Products, *p)
		}
	}
	resp.Count = len(resp.Products)
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := ps.ByName("productId")
	p, err := h.products.FindByID(ctx, id)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	if !p.Active() {
		utils.RespondWithErr(w, r, apperr.NotFound(apperr.MsgProductNotFound))
		return
	}

	sid := utils.GetSessionID(r)
	if err := h.store.Add(ctx, sid, id); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	h.respond(ctx, w, r, sid, id, true)
}

// Remove is a no-op for ids that are not in the set.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sid, id := utils.GetSessionID(r), ps.ByName("productId")
	if err := h.store.Remove(ctx, sid, id); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	h.respond(ctx, w, r, sid, id, false)
}

func (h *Handler) respond(ctx context.Context, w http.ResponseWriter, r *http.Request, sid, id string, fav bool) {
	n, err := h.store.Count(ctx, sid)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toggleResponse{ProductID: id, Favorite: fav, Count: n})
}

// Check reports whether the product is in the visitor's favorites.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sid, id := utils.GetSessionID(r), ps.ByName("productId")
	ok, err := h.store.Contains(ctx, sid, id)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	h.respond(ctx, w, r, sid, id, ok)
}
