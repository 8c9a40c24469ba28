package handlers

import (
	"tokostore/internal/models"
	"tokostore/internal/repositories"
	"tokostore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminHandler serves the staff-only order and user views.
type AdminHandler struct {
	admin    *services.AdminService
	orders   *services.OrderService
	validate *validator.Validate
	log      *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *services.AdminService, orders *services.OrderService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		admin:    admin,
		orders:   orders,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers order and user administration under an already guarded admin router.
func (h *AdminHandler) RegisterRoutes(admin fiber.Router) {
	orderRoutes := admin.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/stats", h.HandleOrderStats)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Patch("/:id/update_status", h.HandleUpdateOrderStatus)
	orderRoutes.Delete("/:id", methodNotAllowed)

	userRoutes := admin.Group("/users")
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Get("/stats", h.HandleUserStats)
	userRoutes.Get("/:id", h.HandleGetUser)
}

// UpdateStatusRequest is the body of PATCH /admin/orders/:id/update_status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleGetOrders lists every order, filtered by ?status= and ?user=.
func (h *AdminHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.orders.AdminListOrders(c.UserContext(), repositories.OrderFilter{
		UserID: c.Query("user"),
		Status: models.OrderStatus(c.Query("status")),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(orders)
}

func (h *AdminHandler) HandleGetOrder(c *fiber.Ctx) error {
	order, err := h.orders.AdminGetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(order)
}

func (h *AdminHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validateStruct(c, h.validate, req); !ok {
		return err
	}

	order, err := h.orders.UpdateOrderStatus(c.UserContext(), c.Params("id"), models.OrderStatus(req.Status))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(order)
}

func (h *AdminHandler) HandleOrderStats(c *fiber.Ctx) error {
	stats, err := h.admin.OrderStats(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(stats)
}

func (h *AdminHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.admin.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(users)
}

func (h *AdminHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.admin.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(user)
}

func (h *AdminHandler) HandleUserStats(c *fiber.Ctx) error {
	stats, err := h.admin.UserStats(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(stats)
}
