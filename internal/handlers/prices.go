package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/agridata/farmtrack/internal/middleware"
	"github.com/agridata/farmtrack/internal/services"
	"github.com/agridata/farmtrack/internal/types"
)

// PriceHandler handles the farm-scoped price routes
type PriceHandler struct {
	DB *gorm.DB
}

// UpdatePriceRequest is the price update body.
type UpdatePriceRequest struct {
	Price float64 `json:"price"`
}

// CreatePriceRequest is the price creation body.
type CreatePriceRequest struct {
	Product string  `json:"product"`
	Price   float64 `json:"price"`
	Unit    string  `json:"unit"`
}

// GetPrices handles GET /api/prices
// @Summary List prices
// @Description All prices for the caller's farm ordered by product name
// @Tags Prices
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Price
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /prices [get]
func (h *PriceHandler) GetPrices(c *fiber.Ctx) error {
	farmID, err := middleware.FarmIDFromCtx(c)
	if err != nil {
		return err
	}

	prices, err := services.ListPrices(h.DB, farmID)
	if err != nil {
		return serverError("fetching prices", err)
	}

	return c.JSON(prices)
}

// UpdatePrice handles PUT /api/prices/:product
// @Summary Update a product price
// @Description Scoped by product and farm; a miss on either returns 404
// @Tags Prices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product path string true "Product name"
// @Param body body UpdatePriceRequest true "New price"
// @Success 200 {object} models.Price
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /prices/{product} [put]
func (h *PriceHandler) UpdatePrice(c *fiber.Ctx) error {
	farmID, err := middleware.FarmIDFromCtx(c)
	if err != nil {
		return err
	}

	product := c.Params("product")

	var req UpdatePriceRequest
	if err := c.BodyParser(&req); err != nil {
		return types.NewValidationError("Valid price is required")
	}
	if req.Price <= 0 {
		return types.NewValidationError("Valid price is required")
	}

	price, err := services.UpdatePrice(h.DB, farmID, product, req.Price)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return types.NewNotFoundError("Product not found for this farm")
		}
		return serverError("updating price", err)
	}

	return c.JSON(price)
}

// CreatePrice handles POST /api/prices
// @Summary Add a product price
// @Tags Prices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreatePriceRequest true "Price fields"
// @Success 201 {object} models.Price
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /prices [post]
func (h *PriceHandler) CreatePrice(c *fiber.Ctx) error {
	farmID, err := middleware.FarmIDFromCtx(c)
	if err != nil {
		return err
	}

	var req CreatePriceRequest
	if err := c.BodyParser(&req); err != nil {
		return types.NewValidationError("Invalid request body")
	}
	if req.Product == "" {
		return types.NewValidationError("Product is required")
	}
	if req.Price <= 0 {
		return types.NewValidationError("Valid price is required")
	}

	price, err := services.CreatePrice(h.DB, farmID, req.Product, req.Price, req.Unit)
	if err != nil {
		if errors.Is(err, services.ErrDuplicatePrice) {
			return types.NewValidationError("Price already exists for this product")
		}
		return serverError("creating price", err)
	}

	return c.Status(fiber.StatusCreated).JSON(price)
}

// GetCurrentMonthIncome handles GET /api/prices/income/current
// @Summary Current month income, month-grouped
// @Tags Prices
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.MonthIncome
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /prices/income/current [get]
func (h *PriceHandler) GetCurrentMonthIncome(c *fiber.Ctx) error {
	farmID, err := middleware.FarmIDFromCtx(c)
	if err != nil {
		return err
	}

	income, err := services.CurrentMonthIncomeByMonth(h.DB, farmID)
	if err != nil {
		return serverError("fetching current month income", err)
	}

	return c.JSON(income)
}
