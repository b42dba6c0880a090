package services

import (
	"gorm.io/gorm"

	"github.com/agridata/farmtrack/internal/models"
)

// ProductionRow is a production record joined to the farm's current price.
// Price and Income stay nil for products without a price row; the listing
// never excludes unpriced production.
type ProductionRow struct {
	ID       uint        `json:"id"`
	Product  string      `json:"product"`
	Quantity float64     `json:"quantity"`
	Unit     string      `json:"unit"`
	Date     models.Date `json:"date"`
	Notes    string      `json:"notes"`
	UserID   uint        `json:"user_id"`
	Price    *float64    `json:"price"`
	Income   *float64    `json:"income"`
}

// AddProductionInput carries the validated production fields.
type AddProductionInput struct {
	Product  string
	Quantity float64
	Unit     string
	Date     models.Date
	Notes    string
}

// AddProduction appends a production event for the user's farm and returns
// the stored row together with the current price and the derived income.
// Neither price nor income is persisted; a missing price yields zero.
func AddProduction(db *gorm.DB, farmID, userID uint, in AddProductionInput) (*ProductionRow, error) {
	date := in.Date
	if date.IsZero() {
		date = models.Today()
	}

	record := models.Production{
		Product:  in.Product,
		Quantity: in.Quantity,
		Unit:     in.Unit,
		Date:     date,
		Notes:    in.Notes,
		UserID:   userID,
		FarmID:   farmID,
	}
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}

	price, err := currentPrice(db, farmID, in.Product)
	if err != nil {
		return nil, err
	}
	income := record.Quantity * price

	return &ProductionRow{
		ID:       record.ID,
		Product:  record.Product,
		Quantity: record.Quantity,
		Unit:     record.Unit,
		Date:     record.Date,
		Notes:    record.Notes,
		UserID:   record.UserID,
		Price:    &price,
		Income:   &income,
	}, nil
}

// ListProduction returns all production for the farm left-joined to
// current prices, newest date first.
func ListProduction(db *gorm.DB, farmID uint) ([]ProductionRow, error) {
	rows := []ProductionRow{}
	err := db.Table("production p").
		Select("p.id, p.product, p.quantity, p.unit, p.date, p.notes, p.user_id, pr.price, (p.quantity * pr.price) AS income").
		Joins("LEFT JOIN prices pr ON pr.product = p.product AND pr.farm_id = p.farm_id").
		Where("p.farm_id = ?", farmID).
		Order("p.date DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
