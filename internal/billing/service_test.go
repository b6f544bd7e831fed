package billing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pvsmart/pvsmart-backend/internal/products"
	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
	pkgerrors "github.com/pvsmart/pvsmart-backend/pkg/errors"
)

func TestCreateBillDefaultsCustomerName(t *testing.T) {
	t.Parallel()

	productRepo := &stubProductRepo{
		products: map[int64]*models.Product{
			1: {ID: 1, Name: "Atta 5kg", Price: decimal.NewFromFloat(240), Stock: 6, IsActive: true},
		},
	}
	billRepo := newStubBillRepo()

	svc, err := NewService(billRepo, productRepo, stubTxRunner{}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	view, err := svc.CreateBill(context.Background(), CreateBillInput{
		CreatedByID: 1,
		Items:       []BillItemInput{{ProductID: 1, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	if view.CustomerName != "Walk-in" {
		t.Fatalf("customer = %q, want Walk-in", view.CustomerName)
	}
	if !view.TotalAmount.Equal(decimal.NewFromFloat(480)) {
		t.Fatalf("total = %s, want 480", view.TotalAmount)
	}
	if !strings.HasPrefix(view.InvoiceNumber, "BILL-") {
		t.Fatalf("invoice = %q", view.InvoiceNumber)
	}
	if view.PaymentMethod != enums.PaymentMethodCash {
		t.Fatalf("payment method = %s", view.PaymentMethod)
	}
	if got := productRepo.products[1].Stock; got != 4 {
		t.Fatalf("stock = %d, want 4", got)
	}
}

func TestCreateBillInsufficientStock(t *testing.T) {
	t.Parallel()

	productRepo := &stubProductRepo{
		products: map[int64]*models.Product{
			1: {ID: 1, Name: "Oil 1L", Price: decimal.NewFromFloat(150), Stock: 1, IsActive: true},
		},
	}
	billRepo := newStubBillRepo()

	svc, err := NewService(billRepo, productRepo, stubTxRunner{}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.CreateBill(context.Background(), CreateBillInput{
		CreatedByID: 1,
		Items:       []BillItemInput{{ProductID: 1, Quantity: 2}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeOutOfStock {
		t.Fatalf("expected out of stock, got %v", err)
	}
	if len(billRepo.bills) != 0 {
		t.Fatal("no bill should be created when stock is short")
	}
}

func TestCreateBillRequiresItems(t *testing.T) {
	t.Parallel()

	svc, err := NewService(newStubBillRepo(), &stubProductRepo{}, stubTxRunner{}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.CreateBill(context.Background(), CreateBillInput{CreatedByID: 1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetBillNotFound(t *testing.T) {
	t.Parallel()

	svc, err := NewService(newStubBillRepo(), &stubProductRepo{}, stubTxRunner{}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Get(context.Background(), 42)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
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

type stubBillRepo struct {
	bills  map[int64]*models.OfflineBill
	nextID int64
}

func newStubBillRepo() *stubBillRepo {
	return &stubBillRepo{bills: map[int64]*models.OfflineBill{}, nextID: 1}
}

func (s *stubBillRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubBillRepo) Create(ctx context.Context, bill *models.OfflineBill) (*models.OfflineBill, error) {
	bill.ID = s.nextID
	s.nextID++
	bill.CreatedAt = time.Now()
	s.bills[bill.ID] = bill
	return bill, nil
}

func (s *stubBillRepo) CreateItems(ctx context.Context, items []models.OfflineBillItem) error {
	if len(items) == 0 {
		return nil
	}
	bill, ok := s.bills[items[0].BillID]
	if !ok {
		return errors.New("bill not found")
	}
	bill.Items = append(bill.Items, items...)
	return nil
}

func (s *stubBillRepo) FindByID(ctx context.Context, id int64) (*models.OfflineBill, error) {
	bill, ok := s.bills[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return bill, nil
}

func (s *stubBillRepo) List(ctx context.Context, limit int) ([]models.OfflineBill, error) {
	bills := make([]models.OfflineBill, 0, len(s.bills))
	for _, bill := range s.bills {
		bills = append(bills, *bill)
	}
	return bills, nil
}

func (s *stubBillRepo) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]models.OfflineBill, error) {
	return nil, errors.New("not implemented")
}
