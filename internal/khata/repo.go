package khata

import (
	"context"

	"gorm.io/gorm"

	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
)

// Repository defines persistence operations for the credit ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.KhataEntry) (*models.KhataEntry, error)
	ListForUser(ctx context.Context, userID int64) ([]models.KhataEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a GORM-backed khata repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.KhataEntry) (*models.KhataEntry, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) ListForUser(ctx context.Context, userID int64) ([]models.KhataEntry, error) {
	var entries []models.KhataEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
