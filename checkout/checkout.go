// Package checkout turns a cart and the shopper's shipping details into an
// order.
package checkout

import (
	"strings"
	"time"

	"shoestore/apperr"
	"shoestore/cart"
	"shoestore/models"
)

// Normalize trims every field of info.
func Normalize(info models.CustomerInfo) models.CustomerInfo {
	return models.CustomerInfo{
		Name:    strings.TrimSpace(info.Name),
		Address: strings.TrimSpace(info.Address),
		City:    strings.TrimSpace(info.City),
		Street:  strings.TrimSpace(info.Street),
		Phone1:  strings.TrimSpace(info.Phone1),
		Phone2:  strings.TrimSpace(info.Phone2),
	}
}

// Validate reports the first required field that is blank.
func Validate(info models.CustomerInfo) error {
	required := []struct {
		field string
		value string
	}{
		{"name", info.Name},
		{"address", info.Address},
		{"city", info.City},
		{"street", info.Street},
		{"phone1", info.Phone1},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return apperr.Validation(r.field, apperr.MsgFieldRequired)
		}
	}
	return nil
}

// BuildOrder snapshots c and info into a pending order stamped with now.
// The returned order shares no memory with c.
func BuildOrder(c *cart.Cart, info models.CustomerInfo, now time.Time) (*models.Order, error) {
	if c == nil || c.Empty() {
		return nil, apperr.Validation("items", apperr.MsgCartEmpty)
	}
	info = Normalize(info)
	if err := Validate(info); err != nil {
		return nil, err
	}

	items := c.Snapshot()
	return &models.Order{
		CustomerInfo: info,
		Items:        items,
		Total:        cart.Total(items),
		Status:       models.OrderPending,
		CreatedAt:    now,
	}, nil
}
