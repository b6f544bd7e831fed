package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
)

// Repository defines persistence operations for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	// FindByIDForUpdate loads the order under a row lock so concurrent
	// status updates serialize.
	FindByIDForUpdate(ctx context.Context, id int64) (*models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Order, error)
	ListAll(ctx context.Context, filters ListFilters) ([]models.Order, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Order, error)
	UpdateFulfillmentStatus(ctx context.Context, id int64, status enums.FulfillmentStatus) error
	UpdatePaymentStatus(ctx context.Context, id int64, status enums.PaymentStatus) error
}

// ListFilters narrows the admin order listing.
type ListFilters struct {
	Status        enums.OrderStatus
	PaymentMethod enums.PaymentMethod
}
