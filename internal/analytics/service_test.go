package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pvsmart/pvsmart-backend/pkg/config"
	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
)

func TestDashboardAggregates(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 14, 18, 30, 0, 0, time.UTC)
	today := time.Date(2025, 1, 14, 10, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	repo := &stubRepo{
		orders: []models.Order{
			{ID: 1, Total: decimal.NewFromFloat(355), CreatedAt: today},
			{ID: 2, Total: decimal.NewFromFloat(120), CreatedAt: yesterday},
		},
		bills: []models.OfflineBill{
			{ID: 1, Total: decimal.NewFromFloat(80), CreatedAt: today},
		},
		totalOrders:   9,
		totalProducts: 42,
		lowStock:      3,
	}

	svc, err := NewService(repo, config.AnalyticsConfig{LowStockThreshold: 10})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	svc.(*service).now = func() time.Time { return now }

	view, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if !view.TodaySales.Equal(decimal.NewFromFloat(435)) {
		t.Fatalf("today sales = %s, want 435", view.TodaySales)
	}
	if view.TotalOrders != 9 {
		t.Fatalf("total orders = %d", view.TotalOrders)
	}
	if view.TotalProducts != 42 {
		t.Fatalf("total products = %d", view.TotalProducts)
	}
	if view.LowStockCount != 3 {
		t.Fatalf("low stock = %d", view.LowStockCount)
	}
	if len(view.Revenue) != 7 {
		t.Fatalf("revenue points = %d, want 7", len(view.Revenue))
	}
	if view.Revenue[6].Date != "2025-01-14" {
		t.Fatalf("last point date = %s", view.Revenue[6].Date)
	}
	if !view.Revenue[6].Revenue.Equal(decimal.NewFromFloat(435)) {
		t.Fatalf("last point revenue = %s", view.Revenue[6].Revenue)
	}
	if !view.Revenue[5].Revenue.Equal(decimal.NewFromFloat(120)) {
		t.Fatalf("yesterday revenue = %s", view.Revenue[5].Revenue)
	}
	if !view.Revenue[0].Revenue.IsZero() {
		t.Fatalf("oldest revenue = %s, want 0", view.Revenue[0].Revenue)
	}
	if repo.lowStockThreshold != 10 {
		t.Fatalf("threshold = %d, want 10", repo.lowStockThreshold)
	}
}

type stubRepo struct {
	orders            []models.Order
	bills             []models.OfflineBill
	totalOrders       int64
	totalProducts     int64
	lowStock          int64
	lowStockThreshold int
}

func (s *stubRepo) CountOrders(ctx context.Context) (int64, error) {
	return s.totalOrders, nil
}

func (s *stubRepo) CountActiveProducts(ctx context.Context) (int64, error) {
	return s.totalProducts, nil
}

func (s *stubRepo) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	s.lowStockThreshold = threshold
	return s.lowStock, nil
}

func (s *stubRepo) PaidOrdersCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if !order.CreatedAt.Before(from) && order.CreatedAt.Before(to) {
			out = append(out, order)
		}
	}
	return out, nil
}

func (s *stubRepo) BillsCreatedBetween(ctx context.Context, from, to time.Time) ([]models.OfflineBill, error) {
	var out []models.OfflineBill
	for _, bill := range s.bills {
		if !bill.CreatedAt.Before(from) && bill.CreatedAt.Before(to) {
			out = append(out, bill)
		}
	}
	return out, nil
}
