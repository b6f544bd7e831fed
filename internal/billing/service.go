package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pvsmart/pvsmart-backend/internal/products"
	"github.com/pvsmart/pvsmart-backend/pkg/db"
	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
	pkgerrors "github.com/pvsmart/pvsmart-backend/pkg/errors"
	"github.com/pvsmart/pvsmart-backend/pkg/invoice"
	"github.com/pvsmart/pvsmart-backend/pkg/metrics"
)

const (
	invoiceAttempts  = 3
	defaultCustomer  = "Walk-in"
	defaultListLimit = 100
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service records counter sales from the POS screen.
type Service interface {
	CreateBill(ctx context.Context, input CreateBillInput) (*BillView, error)
	Get(ctx context.Context, id int64) (*BillView, error)
	List(ctx context.Context, limit int) ([]BillView, error)
}

// BillItemInput is one requested line on a counter bill.
type BillItemInput struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// CreateBillInput carries a POS billing request.
type CreateBillInput struct {
	CustomerName  string
	Items         []BillItemInput
	PaymentMethod enums.PaymentMethod
	CreatedByID   int64
}

// BillView is the wire representation of a counter bill.
type BillView struct {
	ID            int64               `json:"id"`
	InvoiceNumber string              `json:"invoice_number"`
	CustomerName  string              `json:"customer_name"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Items         []BillItemView      `json:"items,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// BillItemView is one priced line on a counter bill.
type BillItemView struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	Name        string          `json:"name"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
	Quantity    int             `json:"quantity"`
}

// NewBillView maps the model onto its wire representation.
func NewBillView(bill models.OfflineBill) BillView {
	items := make([]BillItemView, 0, len(bill.Items))
	for _, item := range bill.Items {
		items = append(items, BillItemView{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Name:        item.Name,
			PriceAtTime: item.PriceAtTime,
			Quantity:    item.Quantity,
		})
	}
	return BillView{
		ID:            bill.ID,
		InvoiceNumber: bill.InvoiceNumber,
		CustomerName:  bill.CustomerName,
		TotalAmount:   bill.Total,
		PaymentMethod: bill.PaymentMethod,
		Items:         items,
		CreatedAt:     bill.CreatedAt,
	}
}

type service struct {
	bills    Repository
	products products.Repository
	tx       txRunner
	metrics  *metrics.OrderMetrics
}

// NewService builds a billing service with the required dependencies.
func NewService(billRepo Repository, productsRepo products.Repository, tx txRunner, m *metrics.OrderMetrics) (Service, error) {
	if billRepo == nil {
		return nil, fmt.Errorf("billing repository required")
	}
	if productsRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		bills:    billRepo,
		products: productsRepo,
		tx:       tx,
		metrics:  m,
	}, nil
}

// CreateBill records a counter sale. Bills settle at the counter, so there is
// no payment lifecycle; stock is decremented under the same rules as online
// checkout.
func (s *service) CreateBill(ctx context.Context, input CreateBillInput) (*BillView, error) {
	if input.CreatedByID <= 0 {
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

	customer := strings.TrimSpace(input.CustomerName)
	if customer == "" {
		customer = defaultCustomer
	}

	started := time.Now()
	var result *BillView
	backoff := retry.WithMaxRetries(invoiceAttempts-1, retry.NewConstant(time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		return s.runBill(ctx, input, method, customer, &result)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeOutOfStock {
			s.metrics.IncStockConflicts()
		}
		return nil, err
	}

	s.metrics.ObserveCheckoutDuration("counter", time.Since(started))
	s.metrics.IncBillsCreated(method.String())
	return result, nil
}

func (s *service) runBill(ctx context.Context, input CreateBillInput, method enums.PaymentMethod, customer string, out **BillView) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		productsRepo := s.products.WithTx(tx)
		billRepo := s.bills.WithTx(tx)

		total := decimal.Zero
		lines := make([]models.OfflineBillItem, 0, len(input.Items))
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
			lines = append(lines, models.OfflineBillItem{
				ProductID:   product.ID,
				Name:        product.Name,
				PriceAtTime: product.Price,
				Quantity:    item.Quantity,
			})
		}

		bill := &models.OfflineBill{
			InvoiceNumber: invoice.BillNumber(time.Now()),
			CustomerName:  customer,
			Total:         total,
			PaymentMethod: method,
			CreatedByID:   input.CreatedByID,
		}
		saved, err := billRepo.Create(ctx, bill)
		if err != nil {
			return err
		}
		for i := range lines {
			lines[i].BillID = saved.ID
		}
		if err := billRepo.CreateItems(ctx, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create bill items")
		}

		saved.Items = lines
		view := NewBillView(*saved)
		*out = &view
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err, "offline_bills_invoice_number_key") {
			return retry.RetryableError(err)
		}
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "billing transaction")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id int64) (*BillView, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bill id required")
	}
	bill, err := s.bills.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bill not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bill")
	}
	view := NewBillView(*bill)
	return &view, nil
}

func (s *service) List(ctx context.Context, limit int) ([]BillView, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	bills, err := s.bills.List(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bills")
	}
	views := make([]BillView, 0, len(bills))
	for _, bill := range bills {
		views = append(views, NewBillView(bill))
	}
	return views, nil
}
