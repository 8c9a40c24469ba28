// Package server wires repositories, services and handlers into a Fiber app.
package server

import (
	"context"
	"errors"
	"time"

	"tokostore/internal/config"
	"tokostore/internal/handlers"
	"tokostore/internal/middleware"
	"tokostore/internal/repositories"
	"tokostore/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// New builds the HTTP application. publisher may be nil, which disables order events.
// When an admin account is configured it is created or promoted before the app is returned.
func New(cfg *config.Config, db *gorm.DB, publisher services.OrderEventPublisher, log *zap.Logger) (*fiber.App, error) {
	store := repositories.NewStore(db)

	authService := services.NewAuthService(store.Users, store.Tokens, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, log.Named("auth"))
	catalogService := services.NewCatalogService(store.Categories, store.Products, store.Orders, log.Named("catalog"))
	cartService := services.NewCartService(store.Carts, store.Products, log.Named("cart"))
	orderService := services.NewOrderService(store, publisher, log.Named("orders"))
	adminService := services.NewAdminService(store.Users, store.Products, store.Orders)

	if cfg.Admin.Username != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.Email); err != nil {
			return nil, err
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      "tokostore",
		ErrorHandler: errorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if cfg.Env != "test" {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"events": publisher != nil,
		}
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			log.Warn("health check failed", zap.Error(err))
			status["status"] = "unhealthy"
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
		return c.JSON(status)
	})

	auth := middleware.AuthRequired(authService, log.Named("auth"))
	api := app.Group("/api")

	catalogHandler := handlers.NewCatalogHandler(catalogService, adminService, log)
	handlers.NewAuthHandler(authService, log).RegisterRoutes(api, auth)
	catalogHandler.RegisterRoutes(api)
	handlers.NewCartHandler(cartService, log).RegisterRoutes(api, auth)
	handlers.NewOrderHandler(orderService, log).RegisterRoutes(api, auth)

	admin := api.Group("/admin", auth, middleware.AdminRequired())
	catalogHandler.RegisterAdminRoutes(admin)
	handlers.NewAdminHandler(adminService, orderService, log).RegisterRoutes(admin)

	return app, nil
}

// errorHandler renders errors that escape handlers, such as unknown routes, as JSON.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		} else {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}
