package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pvsmart/pvsmart-backend/pkg/enums"
)

// UPITransaction records a UPI payment attempt against an order. The amount
// always comes from the order row, never from the client. Verified rows are
// immutable.
type UPITransaction struct {
	ID           int64                      `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID      int64                      `gorm:"column:order_id;not null;index"`
	UPIID        string                     `gorm:"column:upi_id;not null"`
	Amount       decimal.Decimal            `gorm:"column:amount;type:decimal(10,2);not null"`
	Status       enums.UPITransactionStatus `gorm:"column:status;type:text;not null;default:'PENDING'"`
	VerifiedByID *int64                     `gorm:"column:verified_by_id"`
	VerifiedAt   *time.Time                 `gorm:"column:verified_at"`
	CreatedAt    time.Time                  `gorm:"column:created_at;autoCreateTime"`
}
