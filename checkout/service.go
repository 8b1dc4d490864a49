package checkout

import (
	"context"
	"time"

	"go.uber.org/zap"

	"shoestore/apperr"
	"shoestore/cart"
	"shoestore/models"
	"shoestore/mq"
)

type OrderWriter interface {
	Insert(ctx context.Context, o *models.Order) error
}

// CustomerRecorder keeps per-customer order totals.
type CustomerRecorder interface {
	RecordOrder(ctx context.Context, info models.CustomerInfo, total float64, at time.Time) error
}

type Service struct {
	carts     cart.Store
	products  cart.ProductFinder
	orders    OrderWriter
	customers CustomerRecorder
	events    mq.Publisher
	now       func() time.Time
}

func NewService(carts cart.Store, products cart.ProductFinder, orders OrderWriter, customers CustomerRecorder, events mq.Publisher) *Service {
	return &Service{
		carts:     carts,
		products:  products,
		orders:    orders,
		customers: customers,
		events:    events,
		now:       time.Now,
	}
}

// PlaceOrder checks out the session's cart. The cart is emptied only once
// the order is stored; on any earlier failure it is left as it was.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, info models.CustomerInfo) (*models.Order, error) {
	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	o, err := s.place(ctx, c, info)
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		zap.L().Error("clear cart after checkout", zap.String("order_id", o.ID), zap.Error(err))
		if err := s.carts.Save(ctx, sessionID, cart.New()); err != nil {
			zap.L().Error("reset cart after checkout", zap.String("order_id", o.ID), zap.Error(err))
		}
	}
	return o, nil
}

// PlaceManualOrder stores an order entered from the dashboard.
func (s *Service) PlaceManualOrder(ctx context.Context, c *cart.Cart, info models.CustomerInfo) (*models.Order, error) {
	return s.place(ctx, c, info)
}

func (s *Service) place(ctx context.Context, c *cart.Cart, info models.CustomerInfo) (*models.Order, error) {
	o, err := BuildOrder(c, info, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.checkStock(ctx, o.Items); err != nil {
		return nil, err
	}
	if err := s.orders.Insert(ctx, o); err != nil {
		return nil, err
	}

	zap.L().Info("order placed",
		zap.String("order_id", o.ID),
		zap.Float64("total", o.Total),
		zap.Int("lines", len(o.Items)),
	)

	if s.customers != nil {
		if err := s.customers.RecordOrder(ctx, o.CustomerInfo, o.Total, o.CreatedAt); err != nil {
			zap.L().Warn("record customer order", zap.String("order_id", o.ID), zap.Error(err))
		}
	}

	mq.Emit(s.events, mq.Event{
		Type:     mq.OrderCreated,
		OrderID:  o.ID,
		Status:   o.Status,
		Total:    o.Total,
		Customer: o.CustomerInfo.Name,
		At:       o.CreatedAt,
	})
	return o, nil
}

// checkStock re-reads every line's product. Anything deactivated, sold out
// or no longer offered in the chosen size and color since it was carted
// stops the order.
func (s *Service) checkStock(ctx context.Context, items []models.CartItem) error {
	for _, it := range items {
		p, err := s.products.FindByID(ctx, it.ProductID)
		if err == nil {
			err = cart.CheckAvailable(p, it.Size, it.Color)
		}
		switch {
		case err == nil:
		case apperr.Is(err, apperr.KindNotFound):
			return apperr.Validation("items", apperr.MsgItemUnavailable)
		case apperr.Is(err, apperr.KindValidation):
			zap.L().Info("checkout line unavailable",
				zap.String("product_id", it.ProductID),
				zap.Int("size", it.Size),
				zap.String("color", it.Color),
			)
			return apperr.Validation("items", apperr.MsgItemUnavailable)
		default:
			return err
		}
	}
	return nil
}
