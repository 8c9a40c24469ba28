package handlers

import (
	"strconv"

	"tokostore/internal/repositories"
	"tokostore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogHandler handles HTTP requests for categories and products.
type CatalogHandler struct {
	service  *services.CatalogService
	admin    *services.AdminService
	validate *validator.Validate
	log      *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService, admin *services.AdminService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service:  service,
		admin:    admin,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the public, read-only catalog routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategory)

	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts(false))
	productRoutes.Get("/featured", h.HandleGetFeaturedProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
}

// RegisterAdminRoutes registers catalog management under an already guarded admin router.
func (h *CatalogHandler) RegisterAdminRoutes(admin fiber.Router) {
	categoryRoutes := admin.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Post("/", h.HandleCreateCategory)
	categoryRoutes.Get("/:id", h.HandleGetCategory)
	categoryRoutes.Put("/:id", h.HandleUpdateCategory)
	categoryRoutes.Delete("/:id", h.HandleDeleteCategory)

	productRoutes := admin.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts(true))
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/stats", h.HandleProductStats)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// CategoryRequest is the body of category create and update.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

// ProductRequest is the body of product create and update.
type ProductRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    *string         `json:"category"`
	ImageURL    string          `json:"image_url"`
	Stock       int             `json:"stock" validate:"min=0"`
	Size        string          `json:"size" validate:"max=50"`
	Brand       string          `json:"brand" validate:"max=100"`
	IsFeatured  bool            `json:"is_featured"`
}

func (r ProductRequest) input() services.ProductInput {
	return services.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		CategoryID:  r.Category,
		ImageURL:    r.ImageURL,
		Stock:       r.Stock,
		Size:        r.Size,
		Brand:       r.Brand,
		IsFeatured:  r.IsFeatured,
	}
}

func (h *CatalogHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(categories)
}

func (h *CatalogHandler) HandleGetCategory(c *fiber.Ctx) error {
	category, err := h.service.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(category)
}

func (h *CatalogHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validateStruct(c, h.validate, req); !ok {
		return err
	}
	category, err := h.service.CreateCategory(c.UserContext(), services.CategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *CatalogHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validateStruct(c, h.validate, req); !ok {
		return err
	}
	category, err := h.service.UpdateCategory(c.UserContext(), c.Params("id"), services.CategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(category)
}

func (h *CatalogHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.service.DeleteCategory(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetProducts lists products filtered by ?category= and ?featured=.
// Name search (?search=) is honored on the admin surface only.
func (h *CatalogHandler) HandleGetProducts(allowSearch bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := repositories.ProductFilter{CategoryID: c.Query("category")}
		if featured := c.Query("featured"); featured != "" {
			filter.FeaturedOnly, _ = strconv.ParseBool(featured)
		}
		if allowSearch {
			filter.Search = c.Query("search")
		}

		products, err := h.service.ListProducts(c.UserContext(), filter)
		if err != nil {
			return respondError(c, h.log, err)
		}
		return c.JSON(products)
	}
}

func (h *CatalogHandler) HandleGetFeaturedProducts(c *fiber.Ctx) error {
	products, err := h.service.FeaturedProducts(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}

func (h *CatalogHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(product)
}

func (h *CatalogHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validateStruct(c, h.validate, req); !ok {
		return err
	}
	product, err := h.service.CreateProduct(c.UserContext(), req.input())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *CatalogHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validateStruct(c, h.validate, req); !ok {
		return err
	}
	product, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), req.input())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(product)
}

func (h *CatalogHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CatalogHandler) HandleProductStats(c *fiber.Ctx) error {
	stats, err := h.admin.ProductStats(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(stats)
}
