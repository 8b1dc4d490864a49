package orders

import (
	"time"

	"shoestore/apperr"
	"shoestore/models"
)

var statuses = []models.OrderStatus{
	models.OrderPending,
	models.OrderProcessing,
	models.OrderShipped,
	models.OrderDelivered,
	models.OrderCancelled,
}

var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:    {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:    {models.OrderDelivered},
	models.OrderDelivered:  nil,
	models.OrderCancelled:  nil,
}

var labels = map[models.OrderStatus]string{
	models.OrderPending:    "قيد الانتظار",
	models.OrderProcessing: "قيد المعالجة",
	models.OrderShipped:    "تم الشحن",
	models.OrderDelivered:  "تم التوصيل",
	models.OrderCancelled:  "ملغي",
}

// badge colors used by the dashboard
var colors = map[models.OrderStatus]string{
	models.OrderPending:    "yellow",
	models.OrderProcessing: "blue",
	models.OrderShipped:    "purple",
	models.OrderDelivered:  "green",
	models.OrderCancelled:  "red",
}

// Statuses lists every status in lifecycle order.
func Statuses() []models.OrderStatus {
	return append([]models.OrderStatus(nil), statuses...)
}

func Valid(s models.OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}

func Label(s models.OrderStatus) string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

func Color(s models.OrderStatus) string {
	if c, ok := colors[s]; ok {
		return c
	}
	return "gray"
}

func IsTerminal(s models.OrderStatus) bool {
	return Valid(s) && len(transitions[s]) == 0
}

// Next returns the statuses reachable from s in one step.
func Next(s models.OrderStatus) []models.OrderStatus {
	return append([]models.OrderStatus(nil), transitions[s]...)
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// SetStatus moves o to status. Items and total are never touched.
// Setting the current status again changes nothing.
func SetStatus(o *models.Order, status models.OrderStatus, now time.Time) error {
	if !Valid(status) {
		return apperr.Validation("status", apperr.MsgInvalidStatus)
	}
	if o.Status == status {
		return nil
	}
	if !CanTransition(o.Status, status) {
		return apperr.Conflict(apperr.MsgBadTransition)
	}
	o.Status = status
	o.UpdatedAt = now
	return nil
}

// StatusView is the display form of a status.
type StatusView struct {
	Value models.OrderStatus   `json:"value"`
	Label string               `json:"label"`
	Color string               `json:"color"`
	Next  []models.OrderStatus `json:"next"`
}

func ViewOf(s models.OrderStatus) StatusView {
	return StatusView{Value: s, Label: Label(s), Color: Color(s), Next: Next(s)}
}
