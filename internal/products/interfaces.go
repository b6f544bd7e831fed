package products

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
)

// Repository defines persistence operations for the catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Product, error)
	List(ctx context.Context, filters ListFilters) ([]models.Product, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Deactivate(ctx context.Context, id int64) error
	DecrementStock(ctx context.Context, id int64, qty int) (bool, error)
}

// ListFilters narrows the catalog listing.
type ListFilters struct {
	Category      string
	Subcategory   string
	Search        string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	Sort          string
	IncludeHidden bool
}

// Sort values accepted by List; anything else falls back to newest first.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)
