package server

import (
	"errors"
	"log"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"gorm.io/gorm"

	_ "github.com/agridata/farmtrack/docs/api" // Swagger docs

	"github.com/agridata/farmtrack/internal/config"
	"github.com/agridata/farmtrack/internal/handlers"
	"github.com/agridata/farmtrack/internal/middleware"
	"github.com/agridata/farmtrack/internal/types"
	"github.com/agridata/farmtrack/internal/utils"
)

// New builds the Fiber application with all middleware and routes wired.
func New(cfg *config.Config, db *gorm.DB) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("farmtrack")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg}
	priceHandler := &handlers.PriceHandler{DB: db}
	productionHandler := &handlers.ProductionHandler{DB: db}
	incomeHandler := &handlers.IncomeHandler{DB: db, Cfg: cfg}
	healthHandler := &handlers.HealthHandler{DB: db, Cfg: cfg}

	api := app.Group("/api")

	api.Get("/health", healthHandler.Check)

	// Public auth routes
	authRoutes := api.Group("/auth")
	authRoutes.Post("/signup", authHandler.Signup)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Get("/me", middleware.Protected(cfg), authHandler.Me)

	// Farm-scoped routes; the auth gate is the sole checkpoint
	prices := api.Group("/prices", middleware.Protected(cfg))
	prices.Get("/", priceHandler.GetPrices)
	prices.Post("/", priceHandler.CreatePrice)
	prices.Get("/income/current", priceHandler.GetCurrentMonthIncome)
	prices.Put("/:product", priceHandler.UpdatePrice)

	production := api.Group("/production", middleware.Protected(cfg))
	production.Get("/", productionHandler.List)
	production.Post("/", productionHandler.Create)
	production.Get("/income/monthly", incomeHandler.Monthly)
	production.Get("/income/current", incomeHandler.CurrentMonth)
	production.Get("/income/by-product", incomeHandler.ByProductMonthly)
	production.Get("/income/today", incomeHandler.Today)
	production.Get("/today-products-count", incomeHandler.TodayProductsCount)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	return app
}

// errorHandler maps application errors to the uniform envelope. Anything
// unexpected is logged and reported as a generic 500.
func errorHandler(c *fiber.Ctx, err error) error {
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		return utils.ErrorResponse(c, appErr.Message, appErr.Code)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return utils.ErrorResponse(c, fiberErr.Message, fiberErr.Code)
	}

	log.Printf("Unhandled error on %s: %v", c.OriginalURL(), err)
	return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError)
}
