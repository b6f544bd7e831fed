package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pvsmart/pvsmart-backend/pkg/enums"
)

// OfflineBill represents a counter sale recorded through the POS screen.
// Bills settle immediately; there is no lifecycle beyond creation.
type OfflineBill struct {
	ID            int64               `gorm:"column:id;primaryKey;autoIncrement"`
	InvoiceNumber string              `gorm:"column:invoice_number;type:text;not null;uniqueIndex"`
	CustomerName  string              `gorm:"column:customer_name;not null;default:'Walk-in'"`
	Total         decimal.Decimal     `gorm:"column:total_amount;type:decimal(10,2);not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	CreatedByID   int64               `gorm:"column:created_by_id;not null"`
	Items         []OfflineBillItem   `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime;index"`
}

// OfflineBillItem is a priced line on a counter bill.
type OfflineBillItem struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	BillID      int64           `gorm:"column:bill_id;not null;index"`
	ProductID   int64           `gorm:"column:product_id;not null"`
	Name        string          `gorm:"column:name;not null"`
	PriceAtTime decimal.Decimal `gorm:"column:price_at_time;type:decimal(10,2);not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
