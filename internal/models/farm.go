package models

import "time"

// Farm is the tenant root. Every user, price, and production record
// belongs to exactly one farm.
type Farm struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name for Farm
func (Farm) TableName() string {
	return "farms"
}
