package services

import (
	"context"
	"errors"

	"tokostore/internal/apperrors"
	"tokostore/internal/models"
	"tokostore/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartService handles the caller's cart. Every operation is scoped to userID.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
	log      *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository, log *zap.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		log:      log,
	}
}

// GetCart returns the user's cart with items and totals, creating it on first access.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	return s.carts.GetOrCreate(ctx, userID)
}

// AddItem puts quantity units of the product in the cart, merging with an existing line.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.CartItem, error) {
	if productID == "" {
		return nil, apperrors.Validation("product_id is required")
	}
	if quantity <= 0 {
		return nil, apperrors.Validation("Quantity must be greater than 0")
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, "Product not found")
	}
	if product.Stock < quantity {
		return nil, apperrors.BusinessRule("Insufficient stock. Only %d items available", product.Stock)
	}

	item, err := s.carts.FindItem(ctx, cart.ID, productID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		item = &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
		if err := s.carts.CreateItem(ctx, item); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if product.Stock-item.Quantity < quantity {
			return nil, apperrors.BusinessRule("Cannot add %d more. Only %d items available", quantity, product.Stock-item.Quantity)
		}
		item.Quantity += quantity
		if err := s.carts.UpdateItemQuantity(ctx, item.ID, item.Quantity); err != nil {
			return nil, err
		}
	}

	withProduct(item, product)
	s.log.Debug("cart item added",
		zap.String("user_id", userID), zap.String("product_id", productID), zap.Int("quantity", item.Quantity))
	return item, nil
}

// UpdateItem sets the quantity of one of the user's items. A quantity of zero
// or less removes the item and reports removed=true.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID string, quantity int) (item *models.CartItem, removed bool, err error) {
	if itemID == "" {
		return nil, false, apperrors.Validation("cart_item_id is required")
	}
	item, err = s.carts.GetItemForUser(ctx, itemID, userID)
	if err != nil {
		return nil, false, notFound(err, "Cart item not found")
	}

	if quantity <= 0 {
		if err := s.carts.DeleteItem(ctx, item.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, false, err
		}
		return nil, true, nil
	}

	if item.Product == nil {
		return nil, false, apperrors.NotFound("Product not found")
	}
	if item.Product.Stock < quantity {
		return nil, false, apperrors.BusinessRule("Insufficient stock. Only %d items available", item.Product.Stock)
	}

	if err := s.carts.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
		return nil, false, err
	}
	item.Quantity = quantity
	withProduct(item, item.Product)
	return item, false, nil
}

// RemoveItem deletes one of the user's items.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	if itemID == "" {
		return apperrors.Validation("cart_item_id is required")
	}
	item, err := s.carts.GetItemForUser(ctx, itemID, userID)
	if err != nil {
		return notFound(err, "Cart item not found")
	}
	if err := s.carts.DeleteItem(ctx, item.ID); err != nil {
		return notFound(err, "Cart item not found")
	}
	return nil
}

// Clear empties the user's cart, creating it first if needed.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return s.carts.ClearItems(ctx, cart.ID)
}

func withProduct(item *models.CartItem, product *models.Product) {
	item.Product = product
	item.Subtotal = product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
}
