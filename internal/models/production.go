package models

import "time"

// Production is an append-only harvest event. Its FarmID always equals the
// recording user's farm at insertion time. Income is never persisted here;
// it is derived on read by joining against the farm's current prices.
type Production struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Product   string    `gorm:"size:255;not null" json:"product"`
	Quantity  float64   `gorm:"not null" json:"quantity"`
	Unit      string    `gorm:"size:50" json:"unit"`
	Date      Date      `gorm:"not null;index" json:"date"`
	Notes     string    `gorm:"type:text" json:"notes"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	FarmID    uint      `gorm:"not null;index" json:"farm_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the original singular table name
func (Production) TableName() string {
	return "production"
}
