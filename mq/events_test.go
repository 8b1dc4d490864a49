package mq

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoestore/models"
)

func TestLocalBusDelivers(t *testing.T) {
	got := make(chan Event, 1)
	bus := NewLocalBus(func(e Event) { got <- e })

	require.NoError(t, bus.Publish(context.Background(), Event{Type: OrderCreated, OrderID: "o1", Status: models.OrderPending}))
	e := <-got
	assert.Equal(t, "o1", e.OrderID)
}

func TestEmitIsAsync(t *testing.T) {
	got := make(chan Event, 1)
	Emit(NewLocalBus(func(e Event) { got <- e }), Event{Type: OrderStatusChanged, OrderID: "o2"})

	select {
	case e := <-got:
		assert.Equal(t, OrderStatusChanged, e.Type)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	Emit(nil, Event{Type: OrderCreated})
}
