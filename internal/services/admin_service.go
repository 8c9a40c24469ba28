package services

import (
	"context"

	"tokostore/internal/models"
	"tokostore/internal/repositories"
)

// lowStockThreshold is the stock level under which a product counts as low.
const lowStockThreshold = 10

// AdminService serves the read-only administrative aggregates and user views.
type AdminService struct {
	users    repositories.UserRepository
	products repositories.ProductRepository
	orders   repositories.OrderRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(users repositories.UserRepository, products repositories.ProductRepository, orders repositories.OrderRepository) *AdminService {
	return &AdminService{users: users, products: products, orders: orders}
}

func (s *AdminService) ProductStats(ctx context.Context) (models.ProductStats, error) {
	return s.products.Stats(ctx, lowStockThreshold)
}

func (s *AdminService) OrderStats(ctx context.Context) (models.OrderStats, error) {
	return s.orders.Stats(ctx)
}

func (s *AdminService) UserStats(ctx context.Context) (models.UserStats, error) {
	return s.users.Stats(ctx)
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *AdminService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return user, nil
}
