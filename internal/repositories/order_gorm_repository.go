package repositories

import (
	"context"
	"fmt"

	"tokostore/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func (r *GORMOrderRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product")
}

// GetAll returns the orders matching filter, newest first.
func (r *GORMOrderRepository) GetAll(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := r.withDetails(ctx)
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC, id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	for i := range orders {
		orders[i].FillDerived()
	}
	return orders, nil
}

// GetByID returns an order with its items.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.withDetails(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("get order by ID %s", id), fmt.Sprintf("order with ID %s", id))
	}
	order.FillDerived()
	return &order, nil
}

// GetForUser returns an order only if userID placed it.
func (r *GORMOrderRepository) GetForUser(ctx context.Context, id, userID string) (*models.Order, error) {
	var order models.Order
	if err := r.withDetails(ctx).First(&order, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("get order by ID %s", id), fmt.Sprintf("order with ID %s", id))
	}
	order.FillDerived()
	return &order, nil
}

// Create inserts the order together with its items.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.WithContext(ctx).Omit("User", "Items.Product").Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for status update: %w", id, ErrNotFound)
	}
	return nil
}

// CountItemsForProduct reports how many order lines reference the product.
func (r *GORMOrderRepository) CountItemsForProduct(ctx context.Context, productID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderItem{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count order items of product %s: %w", productID, err)
	}
	return count, nil
}

// Stats counts orders by status and sums delivered revenue.
func (r *GORMOrderRepository) Stats(ctx context.Context) (models.OrderStats, error) {
	var stats models.OrderStats
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return stats, fmt.Errorf("failed to count orders: %w", err)
	}

	byStatus := map[models.OrderStatus]*int64{
		models.OrderStatusPending:    &stats.PendingOrders,
		models.OrderStatusProcessing: &stats.ProcessingOrders,
		models.OrderStatusDelivered:  &stats.CompletedOrders,
	}
	for status, dest := range byStatus {
		if err := r.db.WithContext(ctx).Model(&models.Order{}).Where("status = ?", status).Count(dest).Error; err != nil {
			return stats, fmt.Errorf("failed to count %s orders: %w", status, err)
		}
	}

	var revenue decimal.NullDecimal
	row := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("status = ?", models.OrderStatusDelivered).
		Select("SUM(total_amount)").
		Row()
	if err := row.Scan(&revenue); err != nil {
		return stats, fmt.Errorf("failed to sum revenue: %w", err)
	}
	stats.TotalRevenue = decimal.Zero
	if revenue.Valid {
		stats.TotalRevenue = revenue.Decimal
	}
	return stats, nil
}
