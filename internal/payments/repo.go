package payments

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
)

// Repository defines persistence operations for UPI transactions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, txn *models.UPITransaction) (*models.UPITransaction, error)
	FindPendingByOrder(ctx context.Context, orderID int64) (*models.UPITransaction, error)
	MarkVerified(ctx context.Context, id, verifiedByID int64, verifiedAt time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a GORM-backed UPI transaction repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, txn *models.UPITransaction) (*models.UPITransaction, error) {
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *repository) FindPendingByOrder(ctx context.Context, orderID int64) (*models.UPITransaction, error) {
	var txn models.UPITransaction
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID, enums.UPITransactionStatusPending).
		Order("created_at DESC").
		First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *repository) MarkVerified(ctx context.Context, id, verifiedByID int64, verifiedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.UPITransaction{}).
		Where("id = ? AND status = ?", id, enums.UPITransactionStatusPending).
		Updates(map[string]any{
			"status":         enums.UPITransactionStatusVerified,
			"verified_by_id": verifiedByID,
			"verified_at":    verifiedAt,
		}).Error
}
