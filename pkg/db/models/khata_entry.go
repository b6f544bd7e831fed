package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pvsmart/pvsmart-backend/pkg/enums"
)

// KhataEntry is one line in the informal credit ledger. The running balance
// is never stored; it is computed from the entries so a corrected line can
// never leave a stale total behind.
type KhataEntry struct {
	ID          int64                `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      int64                `gorm:"column:user_id;not null;index"`
	Type        enums.KhataEntryType `gorm:"column:entry_type;type:text;not null"`
	Amount      decimal.Decimal      `gorm:"column:amount;type:decimal(10,2);not null"`
	Note        *string              `gorm:"column:note"`
	CreatedByID int64                `gorm:"column:created_by_id;not null"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime;index"`
}
