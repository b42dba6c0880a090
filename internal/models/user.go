package models

import "time"

// Role distinguishes farm owners, managers, and workers.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleWorker  Role = "worker"
)

// User is an authenticated account attached to a farm. Users are created
// at signup and never updated or deleted by this service.
type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"size:255;not null" json:"username"`
	Email    string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	// The column stays password_hash to match the original schema; the
	// json:"-" tag keeps the hash out of every response.
	PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null" json:"role"`
	FarmID       *uint     `gorm:"index" json:"farm_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
