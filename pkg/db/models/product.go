package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog listing. Stock is the single source of truth
// for availability; decrements happen only through the conditional update in
// the products repository.
type Product struct {
	ID          int64            `gorm:"column:id;primaryKey;autoIncrement"`
	SKU         string           `gorm:"column:sku;type:text;not null;uniqueIndex"`
	Name        string           `gorm:"column:name;not null"`
	Description *string          `gorm:"column:description"`
	Category    string           `gorm:"column:category;not null;index"`
	Subcategory *string          `gorm:"column:subcategory"`
	Price       decimal.Decimal  `gorm:"column:price;type:decimal(10,2);not null"`
	MRP         *decimal.Decimal `gorm:"column:mrp;type:decimal(10,2)"`
	Unit        string           `gorm:"column:unit;not null;default:'pc'"`
	Stock       int              `gorm:"column:stock;not null;default:0"`
	ImageURL    *string          `gorm:"column:image_url"`

	// No gorm default here: a default makes the ORM drop an explicit false
	// on insert. The create path always sets the flag.
	IsActive bool `gorm:"column:is_active;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
