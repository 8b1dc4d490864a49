package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoestore/apperr"
	"shoestore/models"
)

func TestTransitionGraph(t *testing.T) {
	allowed := map[[2]models.OrderStatus]bool{
		{models.OrderPending, models.OrderProcessing}: true,
		{models.OrderPending, models.OrderCancelled}:  true,
		{models.OrderProcessing, models.OrderShipped}: true,
		{models.OrderProcessing, models.OrderCancelled}: true,
		{models.OrderShipped, models.OrderDelivered}:  true,
	}

	for _, from := range Statuses() {
		for _, to := range Statuses() {
			assert.Equal(t, allowed[[2]models.OrderStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, IsTerminal(models.OrderDelivered))
	assert.True(t, IsTerminal(models.OrderCancelled))
	assert.False(t, IsTerminal(models.OrderShipped))
	assert.False(t, IsTerminal("lost"))
}

func TestEveryStatusHasLabelAndColor(t *testing.T) {
	for _, s := range Statuses() {
		assert.NotEqual(t, string(s), Label(s), s)
		assert.NotEqual(t, "gray", Color(s), s)
	}
	assert.Equal(t, "قيد الانتظار", Label(models.OrderPending))
	assert.Equal(t, "red", Color(models.OrderCancelled))
	assert.Equal(t, "gray", Color("unknown"))
}

func TestSetStatus(t *testing.T) {
	created := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	now := created.Add(time.Hour)
	o := &models.Order{
		ID:     "o1",
		Items:  []models.CartItem{{ProductID: "p1", UnitPrice: 100, Quantity: 2}},
		Total:  200,
		Status: models.OrderPending,
		CreatedAt: created,
	}

	require.NoError(t, SetStatus(o, models.OrderProcessing, now))
	assert.Equal(t, models.OrderProcessing, o.Status)
	assert.Equal(t, now, o.UpdatedAt)
	assert.Equal(t, 200.0, o.Total)
	assert.Len(t, o.Items, 1)

	require.NoError(t, SetStatus(o, models.OrderProcessing, now.Add(time.Hour)), "same status is a no-op")
	assert.Equal(t, now, o.UpdatedAt)

	err := SetStatus(o, models.OrderPending, now)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	err = SetStatus(o, "teleported", now)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, models.OrderProcessing, o.Status)
}

func TestViewOf(t *testing.T) {
	v := ViewOf(models.OrderShipped)
	assert.Equal(t, "تم الشحن", v.Label)
	assert.Equal(t, []models.OrderStatus{models.OrderDelivered}, v.Next)
	assert.Empty(t, ViewOf(models.OrderDelivered).Next)
}
