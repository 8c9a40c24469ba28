package repositories

import (
	"context"
	"errors"
	"fmt"

	"tokostore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository defines the interface for cart and cart item data access.
// Item lookups by id are always scoped to the owning user.
type CartRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Cart, error)
	GetOrCreate(ctx context.Context, userID string) (*models.Cart, error)
	FindItem(ctx context.Context, cartID, productID string) (*models.CartItem, error)
	GetItemForUser(ctx context.Context, itemID, userID string) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error
	DeleteItem(ctx context.Context, itemID string) error
	ClearItems(ctx context.Context, cartID string) error
}

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// GetByUserID loads the user's cart with its items and their products.
func (r *GORMCartRepository) GetByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("added_at, id") }).
		Preload("Items.Product").
		First(&cart, "user_id = ?", userID).Error
	if err != nil {
		return nil, notFoundOr(err, "get cart", "cart")
	}
	cart.ComputeTotals()
	return &cart, nil
}

// GetOrCreate returns the user's cart, creating an empty one on first access.
func (r *GORMCartRepository) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := r.GetByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	fresh := models.Cart{ID: uuid.New().String(), UserID: userID}
	// A concurrent first access may win the unique user_id; its cart is read back below.
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return r.GetByUserID(ctx, userID)
}

// FindItem returns the item holding productID in the cart.
func (r *GORMCartRepository) FindItem(ctx context.Context, cartID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).Preload("Product").
		First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error; err != nil {
		return nil, notFoundOr(err, "find cart item", "cart item")
	}
	return &item, nil
}

// GetItemForUser returns the item only when it sits in userID's cart.
func (r *GORMCartRepository) GetItemForUser(ctx context.Context, itemID, userID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		return nil, notFoundOr(err, "get cart item", "cart item")
	}
	return &item, nil
}

func (r *GORMCartRepository) CreateItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	return nil
}

func (r *GORMCartRepository) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).Where("id = ?", itemID).Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	return nil
}

func (r *GORMCartRepository) DeleteItem(ctx context.Context, itemID string) error {
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", itemID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %s not found for deletion: %w", itemID, ErrNotFound)
	}
	return nil
}

// ClearItems deletes every item of the cart. The cart row itself is kept.
func (r *GORMCartRepository) ClearItems(ctx context.Context, cartID string) error {
	if err := r.db.WithContext(ctx).Delete(&models.CartItem{}, "cart_id = ?", cartID).Error; err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", cartID, err)
	}
	return nil
}
