package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/agridata/farmtrack/internal/models"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// A single connection keeps every query on the same in-memory DB.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying SQL DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Farm{},
		&models.User{},
		&models.Price{},
		&models.Production{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func createTestFarm(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	farm := models.Farm{Name: name}
	if err := db.Create(&farm).Error; err != nil {
		t.Fatalf("Failed to create farm: %v", err)
	}
	return farm.ID
}

func createTestUser(t *testing.T, db *gorm.DB, email string, farmID uint) uint {
	t.Helper()
	user := models.User{
		Username:     "Test User",
		Email:        email,
		PasswordHash: "x",
		Role:         models.RoleWorker,
		FarmID:       &farmID,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user.ID
}

func createTestPrice(t *testing.T, db *gorm.DB, farmID uint, product string, price float64) {
	t.Helper()
	row := models.Price{Product: product, Price: price, Unit: "kg", FarmID: farmID}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("Failed to create price: %v", err)
	}
}

func createTestProduction(t *testing.T, db *gorm.DB, farmID, userID uint, product string, quantity float64, date string) {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatalf("Bad test date %q: %v", date, err)
	}
	row := models.Production{
		Product:  product,
		Quantity: quantity,
		Unit:     "kg",
		Date:     models.NewDate(d),
		UserID:   userID,
		FarmID:   farmID,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("Failed to create production: %v", err)
	}
}
