package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pvsmart/pvsmart-backend/internal/orders"
	"github.com/pvsmart/pvsmart-backend/internal/products"
	"github.com/pvsmart/pvsmart-backend/pkg/db"
	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
	pkgerrors "github.com/pvsmart/pvsmart-backend/pkg/errors"
	"github.com/pvsmart/pvsmart-backend/pkg/invoice"
	"github.com/pvsmart/pvsmart-backend/pkg/metrics"
)

// invoiceAttempts bounds retries when a generated invoice number collides.
// The whole transaction is retried so a collision never leaves partial rows.
const invoiceAttempts = 3

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service runs the storefront checkout transaction.
type Service interface {
	Checkout(ctx context.Context, input Input) (*Result, error)
}

// Item is one requested line. Price is the client's view of the unit price
// and is advisory only; the catalog row is the pricing authority.
type Item struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	Price     decimal.Decimal `json:"price"`
}

// Input carries a checkout request.
type Input struct {
	UserID        int64
	Items         []Item
	PaymentMethod enums.PaymentMethod
}

// Result is returned on a successful checkout.
type Result struct {
	OrderID       int64           `json:"order_id"`
	InvoiceNumber string          `json:"invoice_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

type service struct {
	products products.Repository
	orders   orders.Repository
	tx       txRunner
	metrics  *metrics.OrderMetrics
}

// NewService builds a checkout service with the required dependencies.
func NewService(productsRepo products.Repository, ordersRepo orders.Repository, tx txRunner, m *metrics.OrderMetrics) (Service, error) {
	if productsRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		products: productsRepo,
		orders:   ordersRepo,
		tx:       tx,
		metrics:  m,
	}, nil
}

func (s *service) Checkout(ctx context.Context, input Input) (*Result, error) {
	if input.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item required")
	}
	for _, item := range input.Items {
		if item.ProductID <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
	}

	method := input.PaymentMethod
	if method == "" {
		method = enums.PaymentMethodCash
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	started := time.Now()
	var result *Result
	backoff := retry.WithMaxRetries(invoiceAttempts-1, retry.NewConstant(time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		return s.runCheckout(ctx, input, method, &result)
	})
	if err != nil {
		if pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeOutOfStock {
			s.metrics.IncStockConflicts()
		}
		return nil, err
	}

	s.metrics.ObserveCheckoutDuration("online", time.Since(started))
	s.metrics.IncOrdersCreated(method.String())
	return result, nil
}

func (s *service) runCheckout(ctx context.Context, input Input, method enums.PaymentMethod, out **Result) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		productsRepo := s.products.WithTx(tx)
		ordersRepo := s.orders.WithTx(tx)

		total := decimal.Zero
		lines := make([]models.OrderItem, 0, len(input.Items))
		for _, item := range input.Items {
			product, err := productsRepo.FindByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
						WithDetails(map[string]any{"product_id": item.ProductID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}
			if !product.IsActive {
				return pkgerrors.New(pkgerrors.CodeValidation, "product is not available").
					WithDetails(map[string]any{"product_id": product.ID})
			}

			ok, err := productsRepo.DecrementStock(ctx, product.ID, item.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeOutOfStock, "insufficient stock").
					WithDetails(map[string]any{
						"product_id": product.ID,
						"requested":  item.Quantity,
					})
			}

			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			lines = append(lines, models.OrderItem{
				ProductID:   product.ID,
				Name:        product.Name,
				PriceAtTime: product.Price,
				Quantity:    item.Quantity,
			})
		}

		order := &models.Order{
			InvoiceNumber:     invoice.OrderNumber(time.Now()),
			UserID:            input.UserID,
			Total:             total,
			PaymentMethod:     method,
			PaymentStatus:     enums.PaymentStatusPending,
			FulfillmentStatus: enums.FulfillmentStatusPending,
		}
		saved, err := ordersRepo.Create(ctx, order)
		if err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = saved.ID
		}
		if err := ordersRepo.CreateItems(ctx, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		*out = &Result{
			OrderID:       saved.ID,
			InvoiceNumber: saved.InvoiceNumber,
			TotalAmount:   saved.Total,
		}
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err, "orders_invoice_number_key") {
			return retry.RetryableError(err)
		}
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout transaction")
	}
	return nil
}
