package handlers

import (
	"net/http"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ashen-w/furnistore/internal/auth"
	"github.com/ashen-w/furnistore/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func withIdentity(req *http.Request, email, role string) *http.Request {
	return req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{Email: email, Role: role}))
}

func asAdmin(req *http.Request) *http.Request {
	return withIdentity(req, "admin@test", models.RoleAdmin)
}

func asCustomer(req *http.Request) *http.Request {
	return withIdentity(req, "customer@test", models.RoleCustomer)
}

func seedProduct(t *testing.T, db *gorm.DB, productID string, price float64, stock int, available bool) models.Product {
	t.Helper()
	p := models.Product{
		ProductID:   productID,
		Name:        "Oak Chair",
		Description: "Solid oak dining chair",
		Images:      models.StringList{"https://img.test/oak.jpg"},
		Price:       price,
		Stock:       stock,
		Category:    "chairs",
		IsAvailable: available,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func seedUser(t *testing.T, db *gorm.DB, email, password, role string) models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := models.User{
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Password:  hash,
		Role:      role,
		Img:       models.DefaultAvatarURL,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}
