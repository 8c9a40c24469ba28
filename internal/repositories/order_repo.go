package repositories

import (
	"context"

	"tokostore/internal/models"
)

// OrderFilter narrows an order listing. Zero values match everything.
type OrderFilter struct {
	UserID string
	Status models.OrderStatus
}

// OrderRepository defines the interface for order data access.
// There is deliberately no Delete: orders are kept forever.
type OrderRepository interface {
	GetAll(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetForUser(ctx context.Context, id, userID string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	CountItemsForProduct(ctx context.Context, productID string) (int64, error)
	Stats(ctx context.Context) (models.OrderStats, error)
}
