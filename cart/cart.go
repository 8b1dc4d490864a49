// Package cart aggregates the line items a shopper has picked and keeps
// them per browsing session.
package cart

import (
	"slices"

	"github.com/shopspring/decimal"

	"shoestore/apperr"
	"shoestore/models"
)

// Key identifies a line: the same product in the same size and color is
// always one line.
type Key struct {
	ProductID string `json:"productId"`
	Size      int    `json:"size"`
	Color     string `json:"color"`
}

func KeyOf(item models.CartItem) Key {
	return Key{ProductID: item.ProductID, Size: item.Size, Color: item.Color}
}

// Cart is an ordered list of line items. Insertion order is kept so the
// most recently added line renders last.
type Cart struct {
	Items []models.CartItem `json:"items"`
}

func New() *Cart {
	return &Cart{Items: []models.CartItem{}}
}

// Add merges item into the line with the same key, or appends it.
func (c *Cart) Add(item models.CartItem) error {
	if item.Quantity < 1 {
		return apperr.Validation("quantity", apperr.MsgQuantityPositive)
	}
	if i := c.index(KeyOf(item)); i >= 0 {
		c.Items[i].Quantity += item.Quantity
		return nil
	}
	c.Items = append(c.Items, item)
	return nil
}

// UpdateQuantity sets the quantity of the line at k. Values below one are
// clamped to one; use Remove to drop a line. A missing line is ignored.
func (c *Cart) UpdateQuantity(k Key, quantity int) {
	i := c.index(k)
	if i < 0 {
		return
	}
	c.Items[i].Quantity = max(quantity, 1)
}

// Remove drops the line at k. A missing line is ignored.
func (c *Cart) Remove(k Key) {
	if i := c.index(k); i >= 0 {
		c.Items = slices.Delete(c.Items, i, i+1)
	}
}

func (c *Cart) Total() float64 {
	return Total(c.Items)
}

// ItemCount is the number of units in the cart, not the number of lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Clear() {
	c.Items = []models.CartItem{}
}

// Snapshot returns a copy of the lines that later cart edits cannot reach.
func (c *Cart) Snapshot() []models.CartItem {
	return slices.Clone(c.Items)
}

func (c *Cart) index(k Key) int {
	return slices.IndexFunc(c.Items, func(it models.CartItem) bool {
		return KeyOf(it) == k
	})
}

// Subtotal is one line's unitPrice × quantity rounded to two places.
func Subtotal(it models.CartItem) float64 {
	return lineAmount(it).Round(2).InexactFloat64()
}

// Total sums unitPrice × quantity in decimal and rounds to two places.
func Total(items []models.CartItem) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(lineAmount(it))
	}
	return sum.Round(2).InexactFloat64()
}

func lineAmount(it models.CartItem) decimal.Decimal {
	return decimal.NewFromFloat(it.UnitPrice).Mul(decimal.NewFromInt(int64(it.Quantity)))
}
