package main

import (
	"testing"

	"tokostore/internal/config"
	"tokostore/pkg/rabbitmq"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := logEvent(zap.New(core))

	require.NoError(t, handler(rabbitmq.OrderEvent{
		ID:          "evt-1",
		Type:        rabbitmq.EventOrderCreated,
		OrderID:     "order-1",
		Status:      "pending",
		TotalAmount: decimal.RequireFromString("25"),
		Items:       []rabbitmq.OrderEventItem{{ProductID: "p1", Quantity: 2}},
	}))

	entries := logs.FilterMessage("order event").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "order-1", fields["order_id"])
	assert.Equal(t, "25.00", fields["total"])
	assert.EqualValues(t, 1, fields["items"])
}

func TestRunRequiresBrokerURL(t *testing.T) {
	err := run(&config.Config{}, zap.NewNop())
	assert.EqualError(t, err, "RABBITMQ_URL is required")
}
