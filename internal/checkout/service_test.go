package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pvsmart/pvsmart-backend/internal/orders"
	"github.com/pvsmart/pvsmart-backend/internal/products"
	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
	pkgerrors "github.com/pvsmart/pvsmart-backend/pkg/errors"
)

func TestCheckoutPricesFromCatalog(t *testing.T) {
	t.Parallel()

	productRepo := &stubProductRepo{
		products: map[int64]*models.Product{
			1: {ID: 1, Name: "Toor Dal 1kg", Price: decimal.NewFromFloat(155.50), Stock: 10, IsActive: true},
			2: {ID: 2, Name: "Sugar 1kg", Price: decimal.NewFromFloat(44.00), Stock: 5, IsActive: true},
		},
	}
	orderRepo := newStubOrderRepo()

	svc, err := NewService(productRepo, orderRepo, stubTxRunner{}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	result, err := svc.Checkout(context.Background(), Input{
		UserID: 7,
		Items: []Item{
			// client sends a stale price; the stored one must win
			{ProductID: 1, Quantity: 2, Price: decimal.NewFromFloat(99.99)},
			{ProductID: 2, Quantity: 1},
		},
		PaymentMethod: enums.PaymentMethodUPI,
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	want := decimal.NewFromFloat(355.00)
	if !result.TotalAmount.Equal(want) {
		t.Fatalf("total = %s, want %s", result.TotalAmount, want)
	}
	if result.InvoiceNumber == "" {
		t.Fatal("expected invoice number")
	}

	saved := orderRepo.orders[result.OrderID]
	if saved == nil {
		t.Fatal("order not persisted")
	}
	if saved.PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("payment status = %s", saved.PaymentStatus)
	}
	if saved.FulfillmentStatus != enums.FulfillmentStatusPending {
		t.Fatalf("fulfillment status = %s", saved.FulfillmentStatus)
	}
	if len(orderRepo.items) != 2 {
		t.Fatalf("items = %d, want 2", len(orderRepo.items))
	}
	if !orderRepo.items[0].PriceAtTime.Equal(decimal.NewFromFloat(155.50)) {
		t.Fatalf("price snapshot = %s", orderRepo.items[0].PriceAtTime)
	}
	if got := productRepo.products[1].Stock; got != 8 {
		t.Fatalf("stock after checkout = %d, want 8", got)
	}
}

func TestCheckoutInsufficientStock(t *testing.T) {
	t.Parallel()

	productRepo := &stubProductRepo{
		products: map[int64]*models.Product{
			1: {ID: 1, Name: "Ghee 500ml", Price: decimal.NewFromFloat(320), Stock: 1, IsActive: true},
		},
	}
	orderRepo := newStubOrderRepo()

	svc, err := NewService(productRepo, orderRepo, stubTxRunner{}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Checkout(context.Background(), Input{
		UserID: 7,
		Items:  []Item{{ProductID: 1, Quantity: 3}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeOutOfStock {
		t.Fatalf("expected out of stock error, got %v", err)
	}
	if len(orderRepo.orders) != 0 {
		t.Fatal("no order should be created when stock is short")
	}
}

func TestCheckoutInactiveProduct(t *testing.T) {
	t.Parallel()

	productRepo := &stubProductRepo{
		products: map[int64]*models.Product{
			1: {ID: 1, Name: "Seasonal Mangoes", Price: decimal.NewFromFloat(180), Stock: 4, IsActive: false},
		},
	}

	svc, err := NewService(productRepo, newStubOrderRepo(), stubTxRunner{}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Checkout(context.Background(), Input{
		UserID: 7,
		Items:  []Item{{ProductID: 1, Quantity: 1}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckoutUnknownProduct(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubProductRepo{products: map[int64]*models.Product{}}, newStubOrderRepo(), stubTxRunner{}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Checkout(context.Background(), Input{
		UserID: 7,
		Items:  []Item{{ProductID: 99, Quantity: 1}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubProductRepo{}, newStubOrderRepo(), stubTxRunner{}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Checkout(context.Background(), Input{UserID: 7})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckoutDefaultsToCash(t *testing.T) {
	t.Parallel()

	productRepo := &stubProductRepo{
		products: map[int64]*models.Product{
			1: {ID: 1, Name: "Salt 1kg", Price: decimal.NewFromFloat(24), Stock: 3, IsActive: true},
		},
	}
	orderRepo := newStubOrderRepo()

	svc, err := NewService(productRepo, orderRepo, stubTxRunner{}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	result, err := svc.Checkout(context.Background(), Input{
		UserID: 7,
		Items:  []Item{{ProductID: 1, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if orderRepo.orders[result.OrderID].PaymentMethod != enums.PaymentMethodCash {
		t.Fatalf("payment method = %s", orderRepo.orders[result.OrderID].PaymentMethod)
	}
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubProductRepo struct {
	products map[int64]*models.Product
}

func (s *stubProductRepo) WithTx(tx *gorm.DB) products.Repository { return s }

func (s *stubProductRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProductRepo) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubProductRepo) FindByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProductRepo) List(ctx context.Context, filters products.ListFilters) ([]models.Product, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProductRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	return errors.New("not implemented")
}

func (s *stubProductRepo) Deactivate(ctx context.Context, id int64) error {
	return errors.New("not implemented")
}

func (s *stubProductRepo) DecrementStock(ctx context.Context, id int64, qty int) (bool, error) {
	product, ok := s.products[id]
	if !ok || !product.IsActive || product.Stock < qty {
		return false, nil
	}
	product.Stock -= qty
	return true, nil
}

type stubOrderRepo struct {
	orders map[int64]*models.Order
	items  []models.OrderItem
	nextID int64
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: map[int64]*models.Order{}, nextID: 1}
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.ID = s.nextID
	s.nextID++
	order.CreatedAt = time.Now()
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrderRepo) CreateItems(ctx context.Context, items []models.OrderItem) error {
	s.items = append(s.items, items...)
	return nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubOrderRepo) FindByIDForUpdate(ctx context.Context, id int64) (*models.Order, error) {
	return s.FindByID(ctx, id)
}

func (s *stubOrderRepo) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrderRepo) ListAll(ctx context.Context, filters orders.ListFilters) ([]models.Order, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrderRepo) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrderRepo) UpdateFulfillmentStatus(ctx context.Context, id int64, status enums.FulfillmentStatus) error {
	return errors.New("not implemented")
}

func (s *stubOrderRepo) UpdatePaymentStatus(ctx context.Context, id int64, status enums.PaymentStatus) error {
	return errors.New("not implemented")
}
