package products

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
)

// CreateProductInput captures the fields the owner supplies for a new listing.
// The SKU is generated server side.
type CreateProductInput struct {
	Name        string
	Category    string
	Subcategory *string
	Price       decimal.Decimal
	MRP         *decimal.Decimal
	Stock       int
	Unit        string
	Description *string
	ImageURL    *string
}

// UpdateProductInput carries a partial catalog update; nil fields are left
// untouched.
type UpdateProductInput struct {
	Name        *string
	Category    *string
	Subcategory *string
	Price       *decimal.Decimal
	MRP         *decimal.Decimal
	Stock       *int
	Unit        *string
	Description *string
	ImageURL    *string
	IsActive    *bool
}

// ProductView is the wire representation of a catalog listing.
type ProductView struct {
	ID          int64            `json:"id"`
	SKU         string           `json:"sku"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Category    string           `json:"category"`
	Subcategory *string          `json:"subcategory,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	MRP         *decimal.Decimal `json:"mrp,omitempty"`
	Unit        string           `json:"unit"`
	Stock       int              `json:"stock"`
	ImageURL    *string          `json:"image_url,omitempty"`
	IsActive    bool             `json:"is_active"`
	CreatedAt   time.Time        `json:"created_at"`
}

// NewProductView maps the model onto its wire representation.
func NewProductView(p models.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Price:       p.Price,
		MRP:         p.MRP,
		Unit:        p.Unit,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
}

// NewProductViews maps a slice of models.
func NewProductViews(items []models.Product) []ProductView {
	views := make([]ProductView, 0, len(items))
	for _, item := range items {
		views = append(views, NewProductView(item))
	}
	return views
}
