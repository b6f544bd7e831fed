package history

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
)

// Repository defines persistence operations for browsing history.
type Repository interface {
	// Replace deletes any existing row for the user/product pair and
	// inserts a fresh one so the latest view always wins.
	Replace(ctx context.Context, userID, productID int64, viewedAt time.Time) error
	ListForUser(ctx context.Context, userID int64, limit int) ([]models.RecentlyViewed, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a GORM-backed history repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Replace(ctx context.Context, userID, productID int64, viewedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND product_id = ?", userID, productID).
			Delete(&models.RecentlyViewed{}).Error
		if err != nil {
			return err
		}
		return tx.Create(&models.RecentlyViewed{
			UserID:    userID,
			ProductID: productID,
			ViewedAt:  viewedAt,
		}).Error
	})
}

func (r *repository) ListForUser(ctx context.Context, userID int64, limit int) ([]models.RecentlyViewed, error) {
	var rows []models.RecentlyViewed
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("viewed_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
