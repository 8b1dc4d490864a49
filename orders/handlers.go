package orders

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"shoestore/models"
	"shoestore/mq"
	"shoestore/utils"
)

// Store is the order persistence the handlers need.
type Store interface {
	FindByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, f ListFilter) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus, at time.Time) error
}

type Handler struct {
	store    Store
	events   mq.Publisher
	receipts *ReceiptRenderer
	now      func() time.Time
}

func NewHandler(store Store, events mq.Publisher, receipts *ReceiptRenderer) *Handler {
	return &Handler{store: store, events: events, receipts: receipts, now: time.Now}
}

// orderView is an order with its status rendered for display.
type orderView struct {
	models.Order
	StatusInfo StatusView `json:"statusInfo"`
}

func viewOf(o models.Order) orderView {
	return orderView{Order: o, StatusInfo: ViewOf(o.Status)}
}

// Get serves the order confirmation page. Anyone holding the id may read it.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	o, err := h.store.FindByID(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, viewOf(*o))
}

func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	o, err := h.store.FindByID(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	pdf, err := h.receipts.Render(o)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+o.ID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// List is the dashboard order table: newest first, optional ?status=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := utils.ParseQueryOptions(r)
	status := models.OrderStatus(strings.TrimSpace(q.Status))
	if status != "" && !Valid(status) {
		status = ""
	}

	list, total, err := h.store.List(ctx, ListFilter{Status: status, Page: q.Page, Limit: q.Limit})
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	views := make([]orderView, 0, len(list))
	for _, o := range list {
		views = append(views, viewOf(o))
	}

	statuses := make([]StatusView, 0, len(Statuses()))
	for _, s := range Statuses() {
		statuses = append(statuses, ViewOf(s))
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"orders":   views,
		"total":    total,
		"page":     q.Page,
		"limit":    q.Limit,
		"statuses": statuses,
	})
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.Get(w, r, ps)
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// UpdateStatus moves an order along the status graph and notifies the
// live dashboard feed.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req statusRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	o, err := h.store.FindByID(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	from := o.Status
	if err := SetStatus(o, models.OrderStatus(strings.TrimSpace(string(req.Status))), h.now()); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	if o.Status == from {
		utils.RespondWithJSON(w, http.StatusOK, viewOf(*o))
		return
	}

	if err := h.store.UpdateStatus(ctx, o.ID, from, o.Status, o.UpdatedAt); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	zap.L().Info("order status changed",
		zap.String("order_id", o.ID),
		zap.String("from", string(from)),
		zap.String("to", string(o.Status)),
		zap.String("admin_id", utils.GetAdminID(r)),
	)

	mq.Emit(h.events, mq.Event{
		Type:     mq.OrderStatusChanged,
		OrderID:  o.ID,
		Status:   o.Status,
		Label:    Label(o.Status),
		Total:    o.Total,
		Customer: o.CustomerInfo.Name,
		At:       o.UpdatedAt,
	})
	utils.RespondWithJSON(w, http.StatusOK, viewOf(*o))
}
