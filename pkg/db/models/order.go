package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pvsmart/pvsmart-backend/pkg/enums"
)

// Order represents a storefront checkout. Fulfillment and payment progress on
// independent axes; the legacy combined status clients expect is projected
// from both at the interface boundary.
type Order struct {
	ID                int64                   `gorm:"column:id;primaryKey;autoIncrement"`
	InvoiceNumber     string                  `gorm:"column:invoice_number;type:text;not null;uniqueIndex"`
	UserID            int64                   `gorm:"column:user_id;not null;index"`
	Total             decimal.Decimal         `gorm:"column:total_amount;type:decimal(10,2);not null"`
	PaymentMethod     enums.PaymentMethod     `gorm:"column:payment_method;type:text;not null"`
	PaymentStatus     enums.PaymentStatus     `gorm:"column:payment_status;type:text;not null;default:'PENDING'"`
	FulfillmentStatus enums.FulfillmentStatus `gorm:"column:fulfillment_status;type:text;not null;default:'Pending'"`
	Items             []OrderItem             `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// Status projects the two internal axes onto the combined enum exposed to
// clients. A submitted-but-unverified UPI payment masks the fulfillment
// status until the owner verifies it.
func (o Order) Status() enums.OrderStatus {
	if o.PaymentStatus == enums.PaymentStatusPendingVerification &&
		!o.FulfillmentStatus.IsTerminal() {
		return enums.OrderStatusPaymentSubmitted
	}
	return enums.OrderStatus(o.FulfillmentStatus)
}

// OrderItem is a priced line captured at checkout time. PriceAtTime is the
// catalog price at the moment of purchase, not the client's view.
type OrderItem struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID     int64           `gorm:"column:order_id;not null;index"`
	ProductID   int64           `gorm:"column:product_id;not null"`
	Name        string          `gorm:"column:name;not null"`
	PriceAtTime decimal.Decimal `gorm:"column:price_at_time;type:decimal(10,2);not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
