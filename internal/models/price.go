package models

import "time"

// Price is the current per-unit price of a product on a farm. At most one
// row exists per (farm_id, product); rows are updated in place and never
// deleted, so income derived from them always reflects the latest price.
type Price struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Product   string    `gorm:"size:255;not null;index:idx_farm_product,unique" json:"product"`
	Price     float64   `gorm:"not null" json:"price"`
	Unit      string    `gorm:"size:50" json:"unit"`
	FarmID    uint      `gorm:"not null;index:idx_farm_product,unique" json:"farm_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for Price
func (Price) TableName() string {
	return "prices"
}
