package audit

import (
	"context"

	"gorm.io/gorm"

	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
)

// Repository persists append-only audit entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Record(ctx context.Context, entry Entry) error
	ListForEntity(ctx context.Context, entityType enums.AuditEntityType, entityID int64) ([]models.AuditLog, error)
}

// Entry captures one auditable action. Details holds serialized JSON.
type Entry struct {
	ActorID    int64
	Action     enums.AuditAction
	EntityType enums.AuditEntityType
	EntityID   int64
	Details    *string
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an audit repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Record(ctx context.Context, entry Entry) error {
	row := models.AuditLog{
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		PerformedBy: entry.ActorID,
		Details:     entry.Details,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *repository) ListForEntity(ctx context.Context, entityType enums.AuditEntityType, entityID int64) ([]models.AuditLog, error) {
	var rows []models.AuditLog
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
