package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/agridata/farmtrack/internal/config"
	"github.com/agridata/farmtrack/internal/database"
	"github.com/agridata/farmtrack/internal/handlers"
	"github.com/agridata/farmtrack/internal/models"
	"github.com/agridata/farmtrack/internal/server"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:           "5000",
		DBType:         "sqlite",
		DBDatabase:     ":memory:",
		JWTSecret:      "server-test-secret",
		IncomeProducts: config.DefaultIncomeProducts,
	}
}

// setupTestApp builds the full application against an in-memory SQLite
// database
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying SQL DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return server.New(testConfig(), db), db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func signupOwner(t *testing.T, app *fiber.App, name, email string) handlers.AuthResponse {
	t.Helper()

	resp := doJSON(t, app, "POST", "/api/auth/signup", "", fiber.Map{
		"name": name, "email": email, "password": "pass1234", "role": "owner",
	})
	if resp.StatusCode != 200 {
		t.Fatalf("Signup returned status %d", resp.StatusCode)
	}

	var auth handlers.AuthResponse
	decodeBody(t, resp, &auth)
	if auth.Token == "" || auth.User.FarmID == nil {
		t.Fatalf("Signup response incomplete: %+v", auth)
	}
	return auth
}

func TestSignupAndMe(t *testing.T) {
	app, _ := setupTestApp(t)

	auth := signupOwner(t, app, "Alice", "alice@example.com")
	if auth.User.Name != "Alice" || auth.User.Email != "alice@example.com" {
		t.Errorf("Unexpected user payload: %+v", auth.User)
	}

	resp := doJSON(t, app, "GET", "/api/auth/me", auth.Token, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200 from /me, got %d", resp.StatusCode)
	}

	var me models.User
	decodeBody(t, resp, &me)
	if me.ID != auth.User.ID || me.Email != "alice@example.com" {
		t.Errorf("Unexpected /me payload: %+v", me)
	}
}

func TestSignupValidation(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := doJSON(t, app, "POST", "/api/auth/signup", "", fiber.Map{
		"name": "Alice", "email": "alice@example.com",
	})
	if resp.StatusCode != 400 {
		t.Fatalf("Expected 400 for missing fields, got %d", resp.StatusCode)
	}

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	if body["message"] == nil {
		t.Error("Error envelope must carry a message field")
	}
}

func TestSignupManagerFarmRules(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := doJSON(t, app, "POST", "/api/auth/signup", "", fiber.Map{
		"name": "Mallory", "email": "m@example.com", "password": "pass1234", "role": "manager",
	})
	if resp.StatusCode != 400 {
		t.Fatalf("Expected 400 for manager without farm, got %d", resp.StatusCode)
	}

	owner := signupOwner(t, app, "Alice", "alice@example.com")

	resp = doJSON(t, app, "POST", "/api/auth/signup", "", fiber.Map{
		"name": "Mallory", "email": "m@example.com", "password": "pass1234",
		"role": "manager", "farm_id": *owner.User.FarmID,
	})
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200 for manager with farm, got %d", resp.StatusCode)
	}

	var auth handlers.AuthResponse
	decodeBody(t, resp, &auth)
	if auth.User.FarmID == nil || *auth.User.FarmID != *owner.User.FarmID {
		t.Errorf("Manager must join the named farm, got %v", auth.User.FarmID)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	app, _ := setupTestApp(t)

	signupOwner(t, app, "Alice", "alice@example.com")

	resp := doJSON(t, app, "POST", "/api/auth/signup", "", fiber.Map{
		"name": "Alice Again", "email": "alice@example.com", "password": "pass1234", "role": "owner",
	})
	if resp.StatusCode != 400 {
		t.Fatalf("Expected 400 for duplicate email, got %d", resp.StatusCode)
	}

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	if body["message"] != "Email already registered" {
		t.Errorf("Unexpected duplicate message: %v", body["message"])
	}
}

func TestLoginRejectionsIndistinguishable(t *testing.T) {
	app, _ := setupTestApp(t)
	signupOwner(t, app, "Alice", "alice@example.com")

	unknown := doJSON(t, app, "POST", "/api/auth/login", "", fiber.Map{
		"email": "nobody@example.com", "password": "whatever",
	})
	wrongPass := doJSON(t, app, "POST", "/api/auth/login", "", fiber.Map{
		"email": "alice@example.com", "password": "wrong-pass",
	})

	if unknown.StatusCode != 400 || wrongPass.StatusCode != 400 {
		t.Fatalf("Expected 400/400, got %d/%d", unknown.StatusCode, wrongPass.StatusCode)
	}

	var a, b map[string]interface{}
	decodeBody(t, unknown, &a)
	decodeBody(t, wrongPass, &b)
	if a["message"] != b["message"] {
		t.Errorf("Rejection messages must match: %v vs %v", a["message"], b["message"])
	}
}

func TestAuthGateRejections(t *testing.T) {
	app, _ := setupTestApp(t)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc123"},
		{"too many parts", "Bearer abc def"},
		{"garbage token", "Bearer not-a-token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/prices", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("Failed to execute request: %v", err)
			}
			if resp.StatusCode != 401 {
				t.Errorf("Expected 401, got %d", resp.StatusCode)
			}
		})
	}
}

func TestPriceLifecycle(t *testing.T) {
	app, _ := setupTestApp(t)
	owner := signupOwner(t, app, "Alice", "alice@example.com")

	resp := doJSON(t, app, "POST", "/api/prices", owner.Token, fiber.Map{
		"product": "milk", "price": 2.5, "unit": "l",
	})
	if resp.StatusCode != 201 {
		t.Fatalf("Expected 201 creating price, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "PUT", "/api/prices/milk", owner.Token, fiber.Map{"price": 3.0})
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200 updating price, got %d", resp.StatusCode)
	}

	var updated models.Price
	decodeBody(t, resp, &updated)
	if updated.Price != 3.0 {
		t.Errorf("Expected price 3.0, got %v", updated.Price)
	}

	resp = doJSON(t, app, "PUT", "/api/prices/milk", owner.Token, fiber.Map{"price": -1})
	if resp.StatusCode != 400 {
		t.Fatalf("Expected 400 for non-positive price, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "GET", "/api/prices", owner.Token, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200 listing prices, got %d", resp.StatusCode)
	}
	var prices []models.Price
	decodeBody(t, resp, &prices)
	if len(prices) != 1 || prices[0].Product != "milk" {
		t.Errorf("Unexpected price list: %+v", prices)
	}
}

func TestPriceUpdateIsTenantScoped(t *testing.T) {
	app, _ := setupTestApp(t)
	ownerA := signupOwner(t, app, "Alice", "alice@example.com")
	ownerB := signupOwner(t, app, "Bob", "bob@example.com")

	resp := doJSON(t, app, "POST", "/api/prices", ownerA.Token, fiber.Map{
		"product": "milk", "price": 2.5, "unit": "l",
	})
	if resp.StatusCode != 201 {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}

	// Farm B guesses farm A's product name and must still get a 404.
	resp = doJSON(t, app, "PUT", "/api/prices/milk", ownerB.Token, fiber.Map{"price": 9.9})
	if resp.StatusCode != 404 {
		t.Fatalf("Expected 404 for foreign farm, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "GET", "/api/prices", ownerB.Token, nil)
	var prices []models.Price
	decodeBody(t, resp, &prices)
	if len(prices) != 0 {
		t.Errorf("Farm B must not see farm A's prices: %+v", prices)
	}
}

func TestProductionFlow(t *testing.T) {
	app, _ := setupTestApp(t)
	owner := signupOwner(t, app, "Alice", "alice@example.com")

	resp := doJSON(t, app, "POST", "/api/prices", owner.Token, fiber.Map{
		"product": "milk", "price": 2.5, "unit": "l",
	})
	if resp.StatusCode != 201 {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "POST", "/api/production", owner.Token, fiber.Map{
		"product": "milk", "quantity": 10, "unit": "l", "date": "2024-03-01",
	})
	if resp.StatusCode != 201 {
		t.Fatalf("Expected 201 adding production, got %d", resp.StatusCode)
	}

	var created map[string]interface{}
	decodeBody(t, resp, &created)
	if created["income"] != 25.0 {
		t.Errorf("Expected income 25 on insert, got %v", created["income"])
	}
	if created["date"] != "2024-03-01" {
		t.Errorf("Expected date 2024-03-01, got %v", created["date"])
	}

	// Unpriced product still inserts, with zero price and income.
	resp = doJSON(t, app, "POST", "/api/production", owner.Token, fiber.Map{
		"product": "quinoa", "quantity": 3, "unit": "kg",
	})
	if resp.StatusCode != 201 {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &created)
	if created["income"] != 0.0 {
		t.Errorf("Expected zero income for unpriced product, got %v", created["income"])
	}

	resp = doJSON(t, app, "GET", "/api/production", owner.Token, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200 listing production, got %d", resp.StatusCode)
	}
	var rows []map[string]interface{}
	decodeBody(t, resp, &rows)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
}

func TestProductionValidation(t *testing.T) {
	app, _ := setupTestApp(t)
	owner := signupOwner(t, app, "Alice", "alice@example.com")

	resp := doJSON(t, app, "POST", "/api/production", owner.Token, fiber.Map{
		"product": "milk", "quantity": -2, "unit": "l",
	})
	if resp.StatusCode != 400 {
		t.Fatalf("Expected 400 for non-positive quantity, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "POST", "/api/production", owner.Token, fiber.Map{
		"quantity": 2,
	})
	if resp.StatusCode != 400 {
		t.Fatalf("Expected 400 for missing product, got %d", resp.StatusCode)
	}
}

func TestIncomeEndpoints(t *testing.T) {
	app, _ := setupTestApp(t)
	owner := signupOwner(t, app, "Alice", "alice@example.com")

	resp := doJSON(t, app, "POST", "/api/prices", owner.Token, fiber.Map{
		"product": "milk", "price": 2.0, "unit": "l",
	})
	if resp.StatusCode != 201 {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}

	// One record today, one in a fixed past month.
	resp = doJSON(t, app, "POST", "/api/production", owner.Token, fiber.Map{
		"product": "milk", "quantity": 5, "unit": "l",
	})
	if resp.StatusCode != 201 {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "POST", "/api/production", owner.Token, fiber.Map{
		"product": "milk", "quantity": 3, "unit": "l", "date": "2020-01-15",
	})
	if resp.StatusCode != 201 {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "GET", "/api/production/income/today", owner.Token, nil)
	var total map[string]float64
	decodeBody(t, resp, &total)
	if total["total"] != 10.0 {
		t.Errorf("Expected today total 10, got %v", total["total"])
	}

	resp = doJSON(t, app, "GET", "/api/production/income/current", owner.Token, nil)
	decodeBody(t, resp, &total)
	if total["total"] != 10.0 {
		t.Errorf("Expected current month total 10, got %v", total["total"])
	}

	resp = doJSON(t, app, "GET", "/api/production/income/monthly", owner.Token, nil)
	var monthly []map[string]interface{}
	decodeBody(t, resp, &monthly)
	if len(monthly) != 2 {
		t.Fatalf("Expected 2 monthly records, got %d", len(monthly))
	}
	if monthly[0]["month"] != "2020-01" || monthly[0]["milk"] != 6.0 || monthly[0]["total"] != 6.0 {
		t.Errorf("Unexpected first monthly record: %v", monthly[0])
	}

	resp = doJSON(t, app, "GET", "/api/production/income/by-product", owner.Token, nil)
	var byProduct []map[string]interface{}
	decodeBody(t, resp, &byProduct)
	if len(byProduct) != 2 {
		t.Fatalf("Expected 2 by-product rows, got %d", len(byProduct))
	}

	resp = doJSON(t, app, "GET", "/api/production/today-products-count", owner.Token, nil)
	var count map[string]int64
	decodeBody(t, resp, &count)
	if count["count"] != 1 {
		t.Errorf("Expected 1 distinct product today, got %d", count["count"])
	}

	resp = doJSON(t, app, "GET", "/api/prices/income/current", owner.Token, nil)
	var monthIncome map[string]interface{}
	decodeBody(t, resp, &monthIncome)
	if monthIncome["income"] != 10.0 {
		t.Errorf("Expected month-grouped income 10, got %v", monthIncome["income"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := doJSON(t, app, "GET", "/api/health", "", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200 from health, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	decodeBody(t, resp, &result)
	if result["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", result["status"])
	}
}

func TestNotFoundEnvelope(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := doJSON(t, app, "GET", "/api/nope", "", nil)
	if resp.StatusCode != 404 {
		t.Fatalf("Expected 404, got %d", resp.StatusCode)
	}

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	if body["ok"] != false || body["message"] == nil {
		t.Errorf("Unexpected 404 envelope: %v", body)
	}
}

func TestTokensAreTenantBound(t *testing.T) {
	app, _ := setupTestApp(t)
	ownerA := signupOwner(t, app, "Alice", "alice@example.com")
	ownerB := signupOwner(t, app, "Bob", "bob@example.com")

	for i := 0; i < 3; i++ {
		resp := doJSON(t, app, "POST", "/api/production", ownerA.Token, fiber.Map{
			"product": fmt.Sprintf("crop-%d", i), "quantity": 1, "unit": "kg",
		})
		if resp.StatusCode != 201 {
			t.Fatalf("Expected 201, got %d", resp.StatusCode)
		}
	}

	resp := doJSON(t, app, "GET", "/api/production", ownerB.Token, nil)
	var rows []map[string]interface{}
	decodeBody(t, resp, &rows)
	if len(rows) != 0 {
		t.Errorf("Farm B token must not read farm A production, got %d rows", len(rows))
	}
}
