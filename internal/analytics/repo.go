package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
)

// Repository exposes the aggregate reads behind the owner dashboard.
type Repository interface {
	CountOrders(ctx context.Context) (int64, error)
	CountActiveProducts(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	PaidOrdersCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Order, error)
	BillsCreatedBetween(ctx context.Context, from, to time.Time) ([]models.OfflineBill, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a GORM-backed analytics repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}

func (r *repository) CountActiveProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *repository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ? AND stock < ?", true, threshold).
		Count(&count).Error
	return count, err
}

func (r *repository) PaidOrdersCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Where("payment_status = ? AND created_at >= ? AND created_at < ?", enums.PaymentStatusPaid, from, to).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) BillsCreatedBetween(ctx context.Context, from, to time.Time) ([]models.OfflineBill, error) {
	var rows []models.OfflineBill
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
