package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/agridata/farmtrack/internal/models"
)

// ErrDuplicatePrice reports a second price row for the same (farm,
// product) pair.
var ErrDuplicatePrice = errors.New("price already exists for this product")

// ListPrices returns all prices for the farm ordered by product name.
func ListPrices(db *gorm.DB, farmID uint) ([]models.Price, error) {
	prices := []models.Price{}
	err := db.Where("farm_id = ?", farmID).
		Order("product ASC").
		Find(&prices).Error
	if err != nil {
		return nil, err
	}
	return prices, nil
}

// UpdatePrice sets the price of a product scoped by farm. A miss on either
// product or farm is reported as ErrNotFound, which doubles as tenant
// isolation: guessing another farm's product name changes nothing.
// Applying the same price twice is a no-op beyond updated_at.
func UpdatePrice(db *gorm.DB, farmID uint, product string, price float64) (*models.Price, error) {
	var row models.Price
	err := db.Where("product = ? AND farm_id = ?", product, farmID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	err = db.Model(&row).Updates(map[string]interface{}{
		"price":      price,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}

	return &row, nil
}

// CreatePrice adds a product price for the farm. The (farm_id, product)
// unique index rejects a second row for the same product.
func CreatePrice(db *gorm.DB, farmID uint, product string, price float64, unit string) (*models.Price, error) {
	row := models.Price{
		Product: product,
		Price:   price,
		Unit:    unit,
		FarmID:  farmID,
	}
	if err := db.Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return nil, ErrDuplicatePrice
		}
		return nil, err
	}
	return &row, nil
}

// currentPrice returns the farm's current price for a product, defaulting
// to zero when none is set.
func currentPrice(db *gorm.DB, farmID uint, product string) (float64, error) {
	var row models.Price
	err := db.Where("product = ? AND farm_id = ?", product, farmID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.Price, nil
}
