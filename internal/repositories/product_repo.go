package repositories

import (
	"context"

	"tokostore/internal/models"
)

// ProductFilter narrows a product listing. Zero values match everything.
type ProductFilter struct {
	CategoryID   string
	FeaturedOnly bool
	Search       string // case-insensitive substring of the name
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error

	// LockByIDs loads the given products and holds row locks on them until the
	// surrounding transaction ends.
	LockByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	// DecrementStock subtracts quantity only if enough stock remains and
	// returns ErrInsufficientStock otherwise.
	DecrementStock(ctx context.Context, id string, quantity int) error
	Stats(ctx context.Context, lowStockThreshold int) (models.ProductStats, error)
}
