package cart

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"shoestore/apperr"
	"shoestore/inventory"
	"shoestore/models"
	"shoestore/utils"
)

type ProductFinder interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
}

type Handler struct {
	store    Store
	products ProductFinder
}

func NewHandler(store Store, products ProductFinder) *Handler {
	return &Handler{store: store, products: products}
}

type View struct {
	Items     []models.CartItem `json:"items"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"itemCount"`
}

func ViewOf(c *Cart) View {
	return View{Items: c.Items, Total: c.Total(), ItemCount: c.ItemCount()}
}

type addRequest struct {
	ProductID string `json:"productId"`
	Size      int    `json:"size"`
	Color     string `json:"color"`
	Quantity  *int   `json:"quantity"`
}

type updateRequest struct {
	Key
	Quantity int `json:"quantity"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	c, err := h.store.Load(ctx, utils.GetSessionID(r))
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ViewOf(c))
}

// AddItem prices the line from the product record, never from the client.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req addRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	item, err := h.lineFor(ctx, req)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	sid := utils.GetSessionID(r)
	c, err := h.store.Load(ctx, sid)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	if err := c.Add(item); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	if err := h.store.Save(ctx, sid, c); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	zap.L().Debug("cart item added",
		zap.String("product_id", item.ProductID),
		zap.Int("size", item.Size),
		zap.String("color", item.Color),
		zap.Int("quantity", item.Quantity),
	)
	utils.RespondWithJSON(w, http.StatusCreated, ViewOf(c))
}

func (h *Handler) lineFor(ctx context.Context, req addRequest) (models.CartItem, error) {
	req.ProductID = strings.TrimSpace(req.ProductID)
	req.Color = strings.TrimSpace(req.Color)
	if req.ProductID == "" {
		return models.CartItem{}, apperr.Validation("productId", apperr.MsgFieldRequired)
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 {
		return models.CartItem{}, apperr.Validation("quantity", apperr.MsgQuantityPositive)
	}

	p, err := h.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return models.CartItem{}, err
	}
	if err := CheckAvailable(p, req.Size, req.Color); err != nil {
		return models.CartItem{}, err
	}

	return models.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Image:     p.Image,
		Size:      req.Size,
		Color:     req.Color,
		Quantity:  quantity,
	}, nil
}

// CheckAvailable returns nil when p can be sold in size and color. An
// inactive product reads as missing.
func CheckAvailable(p *models.Product, size int, color string) error {
	if !p.Active() {
		return apperr.NotFound(apperr.MsgProductNotFound)
	}
	if p.Stock <= 0 {
		return apperr.Validation("productId", apperr.MsgOutOfStock)
	}
	sizeOK, colorOK := inventory.Offers(p.Variant, size, color)
	if !sizeOK {
		return apperr.Validation("size", apperr.MsgSizeUnavailable)
	}
	if !colorOK {
		return apperr.Validation("color", apperr.MsgColorUnavailable)
	}
	return nil
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req updateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	h.mutate(w, r, func(c *Cart) { c.UpdateQuantity(req.Key, req.Quantity) })
}

// RemoveItem reads the line key from the query string.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	size, _ := strconv.Atoi(q.Get("size"))
	k := Key{ProductID: q.Get("productId"), Size: size, Color: q.Get("color")}
	h.mutate(w, r, func(c *Cart) { c.Remove(k) })
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.store.Clear(ctx, utils.GetSessionID(r)); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ViewOf(New()))
}

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, fn func(*Cart)) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sid := utils.GetSessionID(r)
	c, err := h.store.Load(ctx, sid)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	fn(c)
	if err := h.store.Save(ctx, sid, c); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ViewOf(c))
}
