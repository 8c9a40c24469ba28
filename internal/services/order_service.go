package services

import (
	"context"
	"errors"
	"strings"

	"tokostore/internal/apperrors"
	"tokostore/internal/models"
	"tokostore/internal/repositories"
	"tokostore/pkg/rabbitmq"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderEventPublisher delivers order events to other systems.
type OrderEventPublisher interface {
	PublishOrderEvent(event rabbitmq.OrderEvent) error
}

// OrderService handles checkout and order queries.
type OrderService struct {
	store     *repositories.Store
	publisher OrderEventPublisher // nil disables events
	log       *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(store *repositories.Store, publisher OrderEventPublisher, log *zap.Logger) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
		log:       log,
	}
}

// CheckoutInput carries the delivery details of a new order.
type CheckoutInput struct {
	ShippingAddress string
	PhoneNumber     string
}

const maxPhoneLength = 15

// Checkout converts the user's cart into an order, decrements stock and empties
// the cart. Either all of it happens or none of it does.
func (s *OrderService) Checkout(ctx context.Context, userID string, in CheckoutInput) (*models.Order, error) {
	in.ShippingAddress = strings.TrimSpace(in.ShippingAddress)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if in.ShippingAddress == "" {
		return nil, apperrors.Validation("shipping_address is required")
	}
	if in.PhoneNumber == "" {
		return nil, apperrors.Validation("phone_number is required")
	}
	if len(in.PhoneNumber) > maxPhoneLength {
		return nil, apperrors.Validation("phone_number must be at most %d characters", maxPhoneLength)
	}

	cart, err := s.store.Carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "Cart not found")
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.BusinessRule("Cart is empty")
	}
	for _, item := range cart.Items {
		if err := checkStock(item.Product, item.Quantity); err != nil {
			return nil, err
		}
	}

	var order *models.Order
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		ids := make([]string, 0, len(cart.Items))
		for _, item := range cart.Items {
			ids = append(ids, item.ProductID)
		}
		locked, err := tx.Products.LockByIDs(ctx, ids)
		if err != nil {
			return err
		}
		products := make(map[string]*models.Product, len(locked))
		for i := range locked {
			products[locked[i].ID] = &locked[i]
		}

		// Stock may have moved since the pre-check; re-validate under the locks.
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			product := products[item.ProductID]
			if err := checkStock(product, item.Quantity); err != nil {
				return err
			}
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		created := &models.Order{
			UserID:          userID,
			TotalAmount:     total,
			Status:          models.OrderStatusPending,
			ShippingAddress: in.ShippingAddress,
			PhoneNumber:     in.PhoneNumber,
			Items:           items,
		}
		if err := tx.Orders.Create(ctx, created); err != nil {
			return err
		}

		for _, item := range items {
			if err := tx.Products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, repositories.ErrInsufficientStock) {
					return apperrors.BusinessRule("Insufficient stock for %s. Please try again", products[item.ProductID].Name)
				}
				return err
			}
		}

		if err := tx.Carts.ClearItems(ctx, cart.ID); err != nil {
			return err
		}

		order, err = tx.Orders.GetByID(ctx, created.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.TotalAmount.StringFixed(2)))
	s.publish(rabbitmq.EventOrderCreated, order)
	return order, nil
}

func checkStock(product *models.Product, quantity int) error {
	if product == nil {
		return apperrors.BusinessRule("A product in your cart is no longer available")
	}
	if product.Stock < quantity {
		return apperrors.BusinessRule("Insufficient stock for %s. Only %d available", product.Name, product.Stock)
	}
	return nil
}

// ListOrders returns the user's own orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.store.Orders.GetAll(ctx, repositories.OrderFilter{UserID: userID})
}

// GetOrder returns one of the user's own orders.
func (s *OrderService) GetOrder(ctx context.Context, userID, id string) (*models.Order, error) {
	order, err := s.store.Orders.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, notFound(err, "Order not found")
	}
	return order, nil
}

// AdminListOrders returns every order matching filter.
func (s *OrderService) AdminListOrders(ctx context.Context, filter repositories.OrderFilter) ([]models.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.Validation("Invalid status")
	}
	return s.store.Orders.GetAll(ctx, filter)
}

// AdminGetOrder returns any order.
func (s *OrderService) AdminGetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.store.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Order not found")
	}
	return order, nil
}

// UpdateOrderStatus moves an order to one of the known statuses.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, apperrors.Validation("Invalid status")
	}
	if err := s.store.Orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, notFound(err, "Order not found")
	}
	order, err := s.AdminGetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info("order status updated", zap.String("order_id", id), zap.String("status", string(status)))
	s.publish(rabbitmq.EventOrderStatusUpdated, order)
	return order, nil
}

// publish is best effort: a failed event never fails the request that caused it.
func (s *OrderService) publish(eventType string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := rabbitmq.OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, rabbitmq.OrderEventItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	if err := s.publisher.PublishOrderEvent(event); err != nil {
		s.log.Warn("failed to publish order event",
			zap.String("type", eventType), zap.String("order_id", order.ID), zap.Error(err))
	}
}
