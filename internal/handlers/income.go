package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/agridata/farmtrack/internal/config"
	"github.com/agridata/farmtrack/internal/middleware"
	"github.com/agridata/farmtrack/internal/services"
)

// IncomeHandler serves the income aggregates under /api/production.
type IncomeHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// TotalResponse wraps a single income total.
type TotalResponse struct {
	Total float64 `json:"total"`
}

// CountResponse wraps a single count.
type CountResponse struct {
	Count int64 `json:"count"`
}

// Monthly handles GET /api/production/income/monthly
// @Summary Monthly income per product
// @Description One record per month with a column per configured product and a total
// @Tags Income
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.MonthlyIncomeRecord
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /production/income/monthly [get]
func (h *IncomeHandler) Monthly(c *fiber.Ctx) error {
	farmID, err := middleware.FarmIDFromCtx(c)
	if err != nil {
		return err
	}

	records, err := services.MonthlyIncome(h.DB, farmID, h.Cfg.IncomeProducts)
	if err != nil {
		return serverError("fetching monthly income", err)
	}

	return c.JSON(records)
}

// CurrentMonth handles GET /api/production/income/current
// @Summary Current month income total
// @Tags Income
// @Produce json
// @Security BearerAuth
// @Success 200 {object} TotalResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /production/income/current [get]
func (h *IncomeHandler) CurrentMonth(c *fiber.Ctx) error {
	farmID, err := middleware.FarmIDFromCtx(c)
	if err != nil {
		return err
	}

	total, err := services.CurrentMonthTotal(h.DB, farmID)
	if err != nil {
		return serverError("fetching current month income", err)
	}

	return c.JSON(TotalResponse{Total: total})
}

// ByProductMonthly handles GET /api/production/income/by-product
// @Summary Income per month and product
// @Tags Income
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.ProductMonthIncome
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /production/income/by-product [get]
func (h *IncomeHandler) ByProductMonthly(c *fiber.Ctx) error {
	farmID, err := middleware.FarmIDFromCtx(c)
	if err != nil {
		return err
	}

	rows, err := services.IncomeByProductMonthly(h.DB, farmID)
	if err != nil {
		return serverError("fetching income by product", err)
	}

	return c.JSON(rows)
}

// Today handles GET /api/production/income/today
// @Summary Today's income total
// @Tags Income
// @Produce json
// @Security BearerAuth
// @Success 200 {object} TotalResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /production/income/today [get]
func (h *IncomeHandler) Today(c *fiber.Ctx) error {
	farmID, err := middleware.FarmIDFromCtx(c)
	if err != nil {
		return err
	}

	total, err := services.TodayTotal(h.DB, farmID)
	if err != nil {
		return serverError("fetching today's income", err)
	}

	return c.JSON(TotalResponse{Total: total})
}

// TodayProductsCount handles GET /api/production/today-products-count
// @Summary Distinct products recorded today
// @Tags Income
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CountResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /production/today-products-count [get]
func (h *IncomeHandler) TodayProductsCount(c *fiber.Ctx) error {
	farmID, err := middleware.FarmIDFromCtx(c)
	if err != nil {
		return err
	}

	count, err := services.TodayProductsCount(h.DB, farmID)
	if err != nil {
		return serverError("fetching today's product count", err)
	}

	return c.JSON(CountResponse{Count: count})
}
