package receipts

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pvsmart/pvsmart-backend/internal/billing"
	"github.com/pvsmart/pvsmart-backend/internal/orders"
	"github.com/pvsmart/pvsmart-backend/pkg/config"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
	pkgerrors "github.com/pvsmart/pvsmart-backend/pkg/errors"
)

var testShop = config.ShopConfig{Name: "PVS Mart", Address: "12 Market Road", Phone: "9876543210"}

func TestOrderReceiptRendersPDF(t *testing.T) {
	t.Parallel()

	orderSvc := &stubOrderService{
		order: &orders.OrderView{
			ID:            1,
			InvoiceNumber: "ORD-20250114-4821",
			UserID:        7,
			Total:         decimal.NewFromFloat(355),
			PaymentMethod: enums.PaymentMethodUPI,
			PaymentStatus: enums.PaymentStatusPaid,
			Items: []orders.OrderItemView{
				{Name: "Toor Dal 1kg", PriceAtTime: decimal.NewFromFloat(155.50), Quantity: 2},
			},
			CreatedAt: time.Now(),
		},
	}

	svc, err := NewService(orderSvc, &stubBillingService{}, testShop)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	pdf, filename, err := svc.OrderReceipt(context.Background(), 1, 7, enums.RoleCustomer)
	if err != nil {
		t.Fatalf("OrderReceipt: %v", err)
	}
	if filename != "ORD-20250114-4821.pdf" {
		t.Fatalf("filename = %q", filename)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
}

func TestBillReceiptRendersPDF(t *testing.T) {
	t.Parallel()

	billingSvc := &stubBillingService{
		bill: &billing.BillView{
			ID:            3,
			InvoiceNumber: "BILL-583921-4821",
			CustomerName:  "Walk-in",
			TotalAmount:   decimal.NewFromFloat(480),
			PaymentMethod: enums.PaymentMethodCash,
			Items: []billing.BillItemView{
				{Name: "Atta 5kg", PriceAtTime: decimal.NewFromFloat(240), Quantity: 2},
			},
			CreatedAt: time.Now(),
		},
	}

	svc, err := NewService(&stubOrderService{}, billingSvc, testShop)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	pdf, filename, err := svc.BillReceipt(context.Background(), 3)
	if err != nil {
		t.Fatalf("BillReceipt: %v", err)
	}
	if filename != "BILL-583921-4821.pdf" {
		t.Fatalf("filename = %q", filename)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
}

func TestOrderReceiptPropagatesAccessErrors(t *testing.T) {
	t.Parallel()

	orderSvc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")}

	svc, err := NewService(orderSvc, &stubBillingService{}, testShop)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, _, err = svc.OrderReceipt(context.Background(), 1, 8, enums.RoleCustomer)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

type stubOrderService struct {
	order *orders.OrderView
	err   error
}

func (s *stubOrderService) Get(ctx context.Context, orderID, actorID int64, actorRole enums.Role) (*orders.OrderView, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func (s *stubOrderService) ListForUser(ctx context.Context, userID int64) ([]orders.OrderView, error) {
	return nil, nil
}

func (s *stubOrderService) ListAll(ctx context.Context, filters orders.ListFilters) ([]orders.OrderView, error) {
	return nil, nil
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, input orders.UpdateStatusInput) (*orders.OrderView, error) {
	return nil, nil
}

type stubBillingService struct {
	bill *billing.BillView
	err  error
}

func (s *stubBillingService) CreateBill(ctx context.Context, input billing.CreateBillInput) (*billing.BillView, error) {
	return nil, nil
}

func (s *stubBillingService) Get(ctx context.Context, id int64) (*billing.BillView, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.bill, nil
}

func (s *stubBillingService) List(ctx context.Context, limit int) ([]billing.BillView, error) {
	return nil, nil
}
