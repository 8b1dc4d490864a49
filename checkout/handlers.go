package checkout

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"shoestore/cart"
	"shoestore/models"
	"shoestore/utils"
)

type Handler struct {
	service  *Service
	products cart.ProductFinder
}

func NewHandler(service *Service, products cart.ProductFinder) *Handler {
	return &Handler{service: service, products: products}
}

// PlaceOrder checks out the caller's session cart.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var info models.CustomerInfo
	if err := utils.DecodeJSON(r, &info); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	o, err := h.service.PlaceOrder(ctx, utils.GetSessionID(r), info)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, o)
}

type manualLine struct {
	ProductID string `json:"productId"`
	Size      int    `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

type manualOrderRequest struct {
	CustomerInfo models.CustomerInfo `json:"customerInfo"`
	Items        []manualLine        `json:"items"`
}

// CreateManual records an order taken outside the storefront, such as by
// phone. Lines are priced from the catalog.
func (h *Handler) CreateManual(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req manualOrderRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	c := cart.New()
	for _, line := range req.Items {
		p, err := h.products.FindByID(ctx, strings.TrimSpace(line.ProductID))
		if err != nil {
			utils.RespondWithErr(w, r, err)
			return
		}
		color := strings.TrimSpace(line.Color)
		if err := cart.CheckAvailable(p, line.Size, color); err != nil {
			utils.RespondWithErr(w, r, err)
			return
		}
		err = c.Add(models.CartItem{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Image:     p.Image,
			Size:      line.Size,
			Color:     color,
			Quantity:  line.Quantity,
		})
		if err != nil {
			utils.RespondWithErr(w, r, err)
			return
		}
	}

	o, err := h.service.PlaceManualOrder(ctx, c, req.CustomerInfo)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, o)
}
