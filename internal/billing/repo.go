package billing

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
)

// Repository defines persistence operations for counter bills.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, bill *models.OfflineBill) (*models.OfflineBill, error)
	CreateItems(ctx context.Context, items []models.OfflineBillItem) error
	FindByID(ctx context.Context, id int64) (*models.OfflineBill, error)
	List(ctx context.Context, limit int) ([]models.OfflineBill, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]models.OfflineBill, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a GORM-backed bill repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, bill *models.OfflineBill) (*models.OfflineBill, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Create(bill).Error; err != nil {
		return nil, err
	}
	return bill, nil
}

func (r *repository) CreateItems(ctx context.Context, items []models.OfflineBillItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.OfflineBill, error) {
	var bill models.OfflineBill
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&bill, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *repository) List(ctx context.Context, limit int) ([]models.OfflineBill, error) {
	var bills []models.OfflineBill
	query := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *repository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]models.OfflineBill, error) {
	var bills []models.OfflineBill
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}
