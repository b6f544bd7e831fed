package products

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func seedProduct(t *testing.T, conn *gorm.DB, sku string, stock int, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		SKU:      sku,
		Name:     "Test " + sku,
		Category: "Staples",
		Price:    decimal.NewFromInt(50),
		Unit:     "pc",
		Stock:    stock,
		IsActive: active,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestDecrementStockGuardsFloor(t *testing.T) {
	t.Parallel()
	conn := openTestDB(t)
	repo := NewRepository(conn)
	product := seedProduct(t, conn, "SKU-FLOOR", 1, true)

	ok, err := repo.DecrementStock(context.Background(), product.ID, 1)
	if err != nil {
		t.Fatalf("first decrement: %v", err)
	}
	if !ok {
		t.Fatal("expected first decrement to succeed")
	}

	ok, err = repo.DecrementStock(context.Background(), product.ID, 1)
	if err != nil {
		t.Fatalf("second decrement: %v", err)
	}
	if ok {
		t.Fatal("expected second decrement to be rejected")
	}

	got, err := repo.FindByID(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if got.Stock != 0 {
		t.Fatalf("expected stock 0 got %d", got.Stock)
	}
}

func TestDecrementStockRejectsInactive(t *testing.T) {
	t.Parallel()
	conn := openTestDB(t)
	repo := NewRepository(conn)
	product := seedProduct(t, conn, "SKU-HIDDEN", 5, false)

	ok, err := repo.DecrementStock(context.Background(), product.ID, 1)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if ok {
		t.Fatal("expected decrement on inactive product to be rejected")
	}
}

func TestListHidesInactiveByDefault(t *testing.T) {
	t.Parallel()
	conn := openTestDB(t)
	repo := NewRepository(conn)
	seedProduct(t, conn, "SKU-LIVE", 10, true)
	seedProduct(t, conn, "SKU-GONE", 10, false)

	visible, err := repo.List(context.Background(), ListFilters{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("expected 1 visible product got %d", len(visible))
	}
	if visible[0].SKU != "SKU-LIVE" {
		t.Fatalf("expected SKU-LIVE got %s", visible[0].SKU)
	}

	all, err := repo.List(context.Background(), ListFilters{IncludeHidden: true})
	if err != nil {
		t.Fatalf("list with hidden: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 products got %d", len(all))
	}
}
