package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/agridata/farmtrack/internal/middleware"
	"github.com/agridata/farmtrack/internal/models"
	"github.com/agridata/farmtrack/internal/services"
	"github.com/agridata/farmtrack/internal/types"
)

// ProductionHandler handles the farm-scoped production routes
type ProductionHandler struct {
	DB *gorm.DB
}

// AddProductionRequest is the production creation body. Date defaults to
// today when omitted.
type AddProductionRequest struct {
	Product  string      `json:"product"`
	Quantity float64     `json:"quantity"`
	Unit     string      `json:"unit"`
	Date     models.Date `json:"date"`
	Notes    string      `json:"notes"`
}

// List handles GET /api/production
// @Summary List production
// @Description All production for the farm left-joined to current prices; unpriced rows carry null price and income
// @Tags Production
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.ProductionRow
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /production [get]
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	farmID, err := middleware.FarmIDFromCtx(c)
	if err != nil {
		return err
	}

	rows, err := services.ListProduction(h.DB, farmID)
	if err != nil {
		return serverError("fetching production", err)
	}

	return c.JSON(rows)
}

// Create handles POST /api/production
// @Summary Record production
// @Description Append a production event and return it with the current price and derived income
// @Tags Production
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AddProductionRequest true "Production fields"
// @Success 201 {object} services.ProductionRow
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /production [post]
func (h *ProductionHandler) Create(c *fiber.Ctx) error {
	identity, err := middleware.IdentityFromCtx(c)
	if err != nil {
		return err
	}
	if identity.FarmID == nil {
		return types.NewValidationError("Missing farm_id in token")
	}

	var req AddProductionRequest
	if err := c.BodyParser(&req); err != nil {
		return types.NewValidationError("Invalid request body")
	}

	if req.Product == "" || req.Unit == "" {
		return types.NewValidationError("Product and unit are required")
	}
	if req.Quantity <= 0 {
		return types.NewValidationError("Quantity must be a positive number")
	}

	row, err := services.AddProduction(h.DB, *identity.FarmID, identity.UserID, services.AddProductionInput{
		Product:  req.Product,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Date:     req.Date,
		Notes:    req.Notes,
	})
	if err != nil {
		return serverError("adding production", err)
	}

	return c.Status(fiber.StatusCreated).JSON(row)
}
