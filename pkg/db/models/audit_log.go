package models

import (
	"time"

	"github.com/pvsmart/pvsmart-backend/pkg/enums"
)

// AuditLog records who changed what. Entries are append-only; Details holds
// serialized JSON describing the change.
type AuditLog struct {
	ID          int64                 `gorm:"column:id;primaryKey;autoIncrement"`
	Action      enums.AuditAction     `gorm:"column:action;type:text;not null"`
	EntityType  enums.AuditEntityType `gorm:"column:entity_type;type:text;not null"`
	EntityID    int64                 `gorm:"column:entity_id;not null;index"`
	PerformedBy int64                 `gorm:"column:performed_by;not null;index"`
	Details     *string               `gorm:"column:details"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
}
