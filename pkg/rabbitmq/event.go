package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types double as routing keys.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusUpdated = "order.status_updated"
)

// OrderEventItem is one line of the order carried in an event.
type OrderEventItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderEvent is the message published when an order is placed or changes status.
type OrderEvent struct {
	ID          string           `json:"id"`
	Type        string           `json:"type"`
	OrderID     string           `json:"order_id"`
	UserID      string           `json:"user_id"`
	Status      string           `json:"status"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	Items       []OrderEventItem `json:"items,omitempty"`
	OccurredAt  time.Time        `json:"occurred_at"`
}

// EncodeOrderEvent fills the id and timestamp when missing and marshals the event.
func EncodeOrderEvent(event OrderEvent) ([]byte, error) {
	if event.Type == "" || event.OrderID == "" {
		return nil, errors.New("order event needs a type and an order id")
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order event: %w", err)
	}
	return body, nil
}

// DecodeOrderEvent parses a message body and rejects events without type or order id.
func DecodeOrderEvent(body []byte) (OrderEvent, error) {
	var event OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return OrderEvent{}, fmt.Errorf("failed to decode order event: %w", err)
	}
	if event.Type == "" || event.OrderID == "" {
		return OrderEvent{}, errors.New("order event is missing type or order id")
	}
	return event, nil
}
