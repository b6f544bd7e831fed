package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
)

// OrderView is the wire representation of an order. Status is the combined
// enum projected from the two internal axes, which are also exposed.
type OrderView struct {
	ID                int64                   `json:"id"`
	InvoiceNumber     string                  `json:"invoice_number"`
	UserID            int64                   `json:"user_id"`
	Total             decimal.Decimal         `json:"total_amount"`
	PaymentMethod     enums.PaymentMethod     `json:"payment_method"`
	PaymentStatus     enums.PaymentStatus     `json:"payment_status"`
	FulfillmentStatus enums.FulfillmentStatus `json:"fulfillment_status"`
	Status            enums.OrderStatus       `json:"status"`
	Items             []OrderItemView         `json:"items,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

// OrderItemView is one priced line on an order.
type OrderItemView struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	Name        string          `json:"name"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
	Quantity    int             `json:"quantity"`
}

// NewOrderView maps the model onto its wire representation.
func NewOrderView(order models.Order) OrderView {
	items := make([]OrderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemView{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Name:        item.Name,
			PriceAtTime: item.PriceAtTime,
			Quantity:    item.Quantity,
		})
	}
	return OrderView{
		ID:                order.ID,
		InvoiceNumber:     order.InvoiceNumber,
		UserID:            order.UserID,
		Total:             order.Total,
		PaymentMethod:     order.PaymentMethod,
		PaymentStatus:     order.PaymentStatus,
		FulfillmentStatus: order.FulfillmentStatus,
		Status:            order.Status(),
		Items:             items,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}

// NewOrderViews maps a slice of models.
func NewOrderViews(rows []models.Order) []OrderView {
	views := make([]OrderView, 0, len(rows))
	for _, row := range rows {
		views = append(views, NewOrderView(row))
	}
	return views
}

// UpdateStatusInput captures an owner-driven status change. Status carries
// the combined legacy enum; the service maps it onto the right axis.
type UpdateStatusInput struct {
	OrderID int64
	Status  enums.OrderStatus
	ActorID int64
}
