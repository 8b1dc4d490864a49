package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"shoestore/models"
)

const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status"

	channel = "order-events"
)

// Event is an order notification fanned out to dashboard listeners.
type Event struct {
	Type     string             `json:"type"`
	OrderID  string             `json:"orderId"`
	Status   models.OrderStatus `json:"status"`
	Label    string             `json:"label,omitempty"`
	Total    float64            `json:"total"`
	Customer string             `json:"customer,omitempty"`
	At       time.Time          `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Emit publishes e in the background. Notification failures never fail
// the request that caused them.
func Emit(p Publisher, e Event) {
	if p == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.Publish(ctx, e); err != nil {
			zap.L().Warn("publish event failed", zap.String("type", e.Type), zap.String("order_id", e.OrderID), zap.Error(err))
		}
	}()
}

// RedisBus carries events over Redis pub/sub so every instance can feed
// its own websocket listeners.
type RedisBus struct {
	rdb *redis.Client
}

func NewRedisBus(rdb *redis.Client) *RedisBus {
	return &RedisBus{rdb: rdb}
}

func (b *RedisBus) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, channel, data).Err()
}

// Run delivers every event on the channel to handle until ctx is done.
func (b *RedisBus) Run(ctx context.Context, handle func(Event)) {
	sub := b.rdb.Subscribe(ctx, channel)
	defer sub.Close()

	zap.L().Info("listening for order events", zap.String("channel", channel))
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				zap.L().Warn("bad event payload", zap.Error(err))
				continue
			}
			handle(e)
		}
	}
}

// LocalBus hands events straight to a handler in-process.
type LocalBus struct {
	handle func(Event)
}

func NewLocalBus(handle func(Event)) *LocalBus {
	return &LocalBus{handle: handle}
}

func (b *LocalBus) Publish(_ context.Context, e Event) error {
	b.handle(e)
	return nil
}
