package services

import (
	"testing"

	"github.com/agridata/farmtrack/internal/models"
)

func TestAddProductionComputesIncome(t *testing.T) {
	db := setupTestDB(t)
	farmID := createTestFarm(t, db, "Green Acres")
	userID := createTestUser(t, db, "worker@example.com", farmID)
	createTestPrice(t, db, farmID, "milk", 2.5)

	row, err := AddProduction(db, farmID, userID, AddProductionInput{
		Product: "milk", Quantity: 10, Unit: "l",
	})
	if err != nil {
		t.Fatalf("AddProduction failed: %v", err)
	}

	if row.Price == nil || *row.Price != 2.5 {
		t.Errorf("Expected price 2.5, got %v", row.Price)
	}
	if row.Income == nil || *row.Income != 25 {
		t.Errorf("Expected income 25, got %v", row.Income)
	}
	if row.Date.String() != models.Today().String() {
		t.Errorf("Expected date to default to today, got %s", row.Date)
	}

	// The stored row carries neither price nor income.
	var stored models.Production
	if err := db.First(&stored, row.ID).Error; err != nil {
		t.Fatalf("Stored row missing: %v", err)
	}
	if stored.FarmID != farmID || stored.UserID != userID {
		t.Errorf("Row not scoped to the recording user, got %+v", stored)
	}
}

func TestAddProductionUnpricedDefaultsToZero(t *testing.T) {
	db := setupTestDB(t)
	farmID := createTestFarm(t, db, "Green Acres")
	userID := createTestUser(t, db, "worker@example.com", farmID)

	row, err := AddProduction(db, farmID, userID, AddProductionInput{
		Product: "quinoa", Quantity: 3, Unit: "kg",
	})
	if err != nil {
		t.Fatalf("AddProduction failed: %v", err)
	}
	if row.Price == nil || *row.Price != 0 {
		t.Errorf("Missing price must default to zero, got %v", row.Price)
	}
	if row.Income == nil || *row.Income != 0 {
		t.Errorf("Income for unpriced product must be zero, got %v", row.Income)
	}
}

func TestListProductionKeepsUnpricedRows(t *testing.T) {
	db := setupTestDB(t)
	farmID := createTestFarm(t, db, "Green Acres")
	userID := createTestUser(t, db, "worker@example.com", farmID)
	createTestPrice(t, db, farmID, "milk", 2.5)

	createTestProduction(t, db, farmID, userID, "milk", 10, "2024-03-01")
	createTestProduction(t, db, farmID, userID, "quinoa", 3, "2024-03-02")

	rows, err := ListProduction(db, farmID)
	if err != nil {
		t.Fatalf("ListProduction failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	// Newest date first.
	if rows[0].Product != "quinoa" || rows[1].Product != "milk" {
		t.Errorf("Expected quinoa before milk, got %s, %s", rows[0].Product, rows[1].Product)
	}

	// Outer join: the unpriced row is present with null price and income.
	if rows[0].Price != nil || rows[0].Income != nil {
		t.Errorf("Unpriced row must carry null price/income, got %v/%v", rows[0].Price, rows[0].Income)
	}
	if rows[1].Income == nil || *rows[1].Income != 25 {
		t.Errorf("Expected income 25 for milk, got %v", rows[1].Income)
	}
}

func TestListProductionScopedByFarm(t *testing.T) {
	db := setupTestDB(t)
	farmA := createTestFarm(t, db, "Farm A")
	farmB := createTestFarm(t, db, "Farm B")
	userA := createTestUser(t, db, "a@example.com", farmA)

	createTestProduction(t, db, farmA, userA, "milk", 10, "2024-03-01")

	rows, err := ListProduction(db, farmB)
	if err != nil {
		t.Fatalf("ListProduction failed: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("Farm B must not see farm A's rows, got %d", len(rows))
	}
}
