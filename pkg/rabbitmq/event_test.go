package rabbitmq_test

import (
	"testing"

	"tokostore/pkg/rabbitmq"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeOrderEvent(t *testing.T) {
	body, err := rabbitmq.EncodeOrderEvent(rabbitmq.OrderEvent{
		Type:        rabbitmq.EventOrderCreated,
		OrderID:     "order-1",
		UserID:      "user-1",
		Status:      "pending",
		TotalAmount: decimal.RequireFromString("25.00"),
		Items:       []rabbitmq.OrderEventItem{{ProductID: "p-1", Quantity: 2, Price: decimal.RequireFromString("10.00")}},
	})
	require.NoError(t, err)

	event, err := rabbitmq.DecodeOrderEvent(body)
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID, "id is assigned on encode")
	assert.False(t, event.OccurredAt.IsZero())
	assert.Equal(t, "order-1", event.OrderID)
	assert.True(t, event.TotalAmount.Equal(decimal.RequireFromString("25")))
	require.Len(t, event.Items, 1)
	assert.Equal(t, 2, event.Items[0].Quantity)
}

func TestEncodeOrderEventRequiresIdentity(t *testing.T) {
	_, err := rabbitmq.EncodeOrderEvent(rabbitmq.OrderEvent{Type: rabbitmq.EventOrderCreated})
	assert.Error(t, err)
}

func TestDecodeOrderEventRejectsGarbage(t *testing.T) {
	_, err := rabbitmq.DecodeOrderEvent([]byte("not json"))
	assert.Error(t, err)

	_, err = rabbitmq.DecodeOrderEvent([]byte(`{"type":"order.created"}`))
	assert.Error(t, err)
}
