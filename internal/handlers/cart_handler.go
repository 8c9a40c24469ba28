package handlers

import (
	"tokostore/internal/middleware"
	"tokostore/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CartHandler handles HTTP requests for the caller's cart.
type CartHandler struct {
	service *services.CartService
	log     *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the cart routes. Every route requires auth.
func (h *CartHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	cartRoutes := router.Group("/cart", auth)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/add", h.HandleAddItem)
	cartRoutes.Patch("/update", h.HandleUpdateItem)
	cartRoutes.Delete("/remove", h.HandleRemoveItem)
	cartRoutes.Delete("/clear", h.HandleClear)
}

// AddItemRequest is the body of POST /cart/add. Quantity defaults to 1.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity"`
}

// UpdateItemRequest is the body of PATCH /cart/update.
type UpdateItemRequest struct {
	CartItemID string `json:"cart_item_id"`
	Quantity   *int   `json:"quantity"`
}

// RemoveItemRequest is the body of DELETE /cart/remove.
type RemoveItemRequest struct {
	CartItemID string `json:"cart_item_id"`
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(cart)
}

func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, err := h.service.AddItem(c.UserContext(), middleware.CurrentUser(c).ID, req.ProductID, quantity)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if req.CartItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cart_item_id is required"})
	}
	if req.Quantity == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "quantity is required"})
	}

	item, removed, err := h.service.UpdateItem(c.UserContext(), middleware.CurrentUser(c).ID, req.CartItemID, *req.Quantity)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if removed {
		return c.JSON(fiber.Map{"message": "Item removed from cart"})
	}
	return c.JSON(item)
}

func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	var req RemoveItemRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c, err)
		}
	}
	if req.CartItemID == "" {
		req.CartItemID = c.Query("cart_item_id")
	}

	if err := h.service.RemoveItem(c.UserContext(), middleware.CurrentUser(c).ID, req.CartItemID); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Item removed from cart"})
}

func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	if err := h.service.Clear(c.UserContext(), middleware.CurrentUser(c).ID); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}
