package checkout

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/cucumber/godog"

	"shoestore/apperr"
	"shoestore/cart"
	"shoestore/models"
)

const featureSession = "feature-session"

type checkoutTestContext struct {
	carts    *cart.MemoryStore
	products fakeProducts
	orders   *fakeOrders
	order  *models.Order
	err    error
}

func (c *checkoutTestContext) reset() {
	c.carts = cart.NewMemoryStore()
	c.products = fakeProducts{}
	c.orders = &fakeOrders{}
	c.order = nil
	c.err = nil
}

func (c *checkoutTestContext) anEmptyCart() error {
	return c.carts.Clear(context.Background(), featureSession)
}

// stock makes sure the catalog sells productID in size and color.
func (c *checkoutTestContext) stock(productID string, size int, color string, qty int, price float64) {
	p, ok := c.products[productID]
	if !ok {
		c.products[productID] = product(productID, price, size, color, qty)
		return
	}
	if !slices.Contains(p.Sizes, size) {
		p.Sizes = append(p.Sizes, size)
	}
	p.Colors = append(p.Colors, models.ColorQuantity{Color: color, Quantity: qty})
	p.Stock += qty
}

func (c *checkoutTestContext) iAdd(qty int, productID string, size int, color string, price float64) error {
	c.stock(productID, size, color, qty, price)

	ctx := context.Background()
	ct, err := c.carts.Load(ctx, featureSession)
	if err != nil {
		return err
	}
	err = ct.Add(models.CartItem{
		ProductID: productID,
		Name:      productID,
		UnitPrice: price,
		Size:      size,
		Color:     color,
		Quantity:  qty,
	})
	if err != nil {
		return err
	}
	return c.carts.Save(ctx, featureSession, ct)
}

func (c *checkoutTestContext) orderStorageIsFailing() error {
	c.orders.fail = errors.New("connection reset")
	return nil
}

func (c *checkoutTestContext) productIsDeactivated(productID string) error {
	p, ok := c.products[productID]
	if !ok {
		return fmt.Errorf("unknown product %q", productID)
	}
	p.Status = models.StatusInactive
	return nil
}

func (c *checkoutTestContext) iCheckOutAs(name, phone string) error {
	svc := NewService(c.carts, c.products, c.orders, nil, nil)
	c.order, c.err = svc.PlaceOrder(context.Background(), featureSession, models.CustomerInfo{
		Name:    name,
		Address: "حي الملز",
		City:    "الرياض",
		Street:  "شارع 5",
		Phone1:  phone,
	})
	return nil
}

func (c *checkoutTestContext) theCartHas(lines int, _ string, units int) error {
	ct, err := c.carts.Load(context.Background(), featureSession)
	if err != nil {
		return err
	}
	if len(ct.Items) != lines {
		return fmt.Errorf("expected %d lines, got %d", lines, len(ct.Items))
	}
	if ct.ItemCount() != units {
		return fmt.Errorf("expected %d units, got %d", units, ct.ItemCount())
	}
	return nil
}

func (c *checkoutTestContext) theCartTotalIs(total float64) error {
	ct, err := c.carts.Load(context.Background(), featureSession)
	if err != nil {
		return err
	}
	if ct.Total() != total {
		return fmt.Errorf("expected total %v, got %v", total, ct.Total())
	}
	return nil
}

func (c *checkoutTestContext) theCartIsEmpty() error {
	return c.theCartHas(0, "lines", 0)
}

func (c *checkoutTestContext) theOrderIsPendingWithTotal(total float64) error {
	if c.err != nil {
		return fmt.Errorf("checkout failed: %w", c.err)
	}
	if c.order.Status != models.OrderPending {
		return fmt.Errorf("expected pending, got %s", c.order.Status)
	}
	if c.order.Total != total {
		return fmt.Errorf("expected total %v, got %v", total, c.order.Total)
	}
	return nil
}

func (c *checkoutTestContext) checkoutFailsWith(kind string) error {
	if c.err == nil {
		return errors.New("expected checkout to fail")
	}
	if got := apperr.KindOf(c.err).String(); got != kind {
		return fmt.Errorf("expected %s, got %s (%v)", kind, got, c.err)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &checkoutTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^an empty cart$`, tc.anEmptyCart)
	ctx.Step(`^I add (\d+) of "([^"]*)" size (\d+) color "([^"]*)" at ([\d.]+)$`, tc.iAdd)
	ctx.Step(`^order storage is failing$`, tc.orderStorageIsFailing)
	ctx.Step(`^the product "([^"]*)" is deactivated$`, tc.productIsDeactivated)

	ctx.Step(`^I check out as "([^"]*)" with phone "([^"]*)"$`, tc.iCheckOutAs)

	ctx.Step(`^the cart has (\d+) (lines?) and (\d+) units$`, tc.theCartHas)
	ctx.Step(`^the cart total is ([\d.]+)$`, tc.theCartTotalIs)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the order is pending with total ([\d.]+)$`, tc.theOrderIsPendingWithTotal)
	ctx.Step(`^checkout fails with "([^"]*)"$`, tc.checkoutFailsWith)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/checkout.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
