package handlers

import (
	"tokostore/internal/middleware"
	"tokostore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for the caller's orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
	log      *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the order routes. Orders are immutable through this
// surface; status changes go through the admin routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	orderRoutes := router.Group("/orders", auth)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Put("/:id", methodNotAllowed)
	orderRoutes.Patch("/:id", methodNotAllowed)
	orderRoutes.Delete("/:id", methodNotAllowed)
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required"`
	PhoneNumber     string `json:"phone_number" validate:"required,max=15"`
}

// HandleGetOrders lists the caller's orders, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves one of the caller's orders.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.UserContext(), middleware.CurrentUser(c).ID, c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(order)
}

// HandleCreateOrder checks out the caller's cart.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validateStruct(c, h.validate, req); !ok {
		return err
	}

	order, err := h.service.Checkout(c.UserContext(), middleware.CurrentUser(c).ID, services.CheckoutInput{
		ShippingAddress: req.ShippingAddress,
		PhoneNumber:     req.PhoneNumber,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}
