package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pvsmart/pvsmart-backend/pkg/config"
	pkgerrors "github.com/pvsmart/pvsmart-backend/pkg/errors"
)

const revenueDays = 7

// Service builds the owner dashboard.
type Service interface {
	Dashboard(ctx context.Context) (*DashboardView, error)
}

// DashboardView is the owner's at-a-glance summary. Today's sales counts
// paid online orders plus every counter bill; unpaid online orders are
// excluded until verification.
type DashboardView struct {
	TodaySales    decimal.Decimal `json:"today_sales"`
	TotalOrders   int64           `json:"total_orders"`
	TotalProducts int64           `json:"total_products"`
	LowStockCount int64           `json:"low_stock_count"`
	Revenue       []RevenuePoint  `json:"revenue"`
}

// RevenuePoint is one day in the trailing revenue series.
type RevenuePoint struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

type service struct {
	repo Repository
	cfg  config.AnalyticsConfig
	now  func() time.Time
}

// NewService builds an analytics service with the required dependencies.
func NewService(repo Repository, cfg config.AnalyticsConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	return &service{repo: repo, cfg: cfg, now: time.Now}, nil
}

func (s *service) Dashboard(ctx context.Context) (*DashboardView, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windowStart := dayStart.AddDate(0, 0, -(revenueDays - 1))
	windowEnd := dayStart.AddDate(0, 0, 1)

	orders, err := s.repo.PaidOrdersCreatedBetween(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load paid orders")
	}
	bills, err := s.repo.BillsCreatedBetween(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bills")
	}

	byDay := map[string]decimal.Decimal{}
	add := func(at time.Time, amount decimal.Decimal) {
		key := at.In(now.Location()).Format("2006-01-02")
		byDay[key] = byDay[key].Add(amount)
	}
	for _, order := range orders {
		add(order.CreatedAt, order.Total)
	}
	for _, bill := range bills {
		add(bill.CreatedAt, bill.Total)
	}

	series := make([]RevenuePoint, 0, revenueDays)
	for i := 0; i < revenueDays; i++ {
		day := windowStart.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		series = append(series, RevenuePoint{Date: key, Revenue: byDay[key]})
	}

	totalOrders, err := s.repo.CountOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	totalProducts, err := s.repo.CountActiveProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	lowStock, err := s.repo.CountLowStock(ctx, s.cfg.LowStockThreshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count low stock")
	}

	return &DashboardView{
		TodaySales:    byDay[dayStart.Format("2006-01-02")],
		TotalOrders:   totalOrders,
		TotalProducts: totalProducts,
		LowStockCount: lowStock,
		Revenue:       series,
	}, nil
}
