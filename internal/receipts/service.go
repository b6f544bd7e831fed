package receipts

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/pvsmart/pvsmart-backend/internal/billing"
	"github.com/pvsmart/pvsmart-backend/internal/orders"
	"github.com/pvsmart/pvsmart-backend/pkg/config"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
	pkgerrors "github.com/pvsmart/pvsmart-backend/pkg/errors"
)

// Service renders printable PDF receipts for orders and counter bills.
type Service interface {
	OrderReceipt(ctx context.Context, orderID, actorID int64, actorRole enums.Role) ([]byte, string, error)
	BillReceipt(ctx context.Context, billID int64) ([]byte, string, error)
}

type receiptLine struct {
	name     string
	quantity int
	price    string
	total    string
}

type receiptData struct {
	title         string
	invoiceNumber string
	issuedAt      string
	customer      string
	paymentMethod string
	paymentNote   string
	lines         []receiptLine
	total         string
}

type service struct {
	orders  orders.Service
	billing billing.Service
	shop    config.ShopConfig
}

// NewService builds a receipts service with the required dependencies.
func NewService(orderSvc orders.Service, billingSvc billing.Service, shop config.ShopConfig) (Service, error) {
	if orderSvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if billingSvc == nil {
		return nil, fmt.Errorf("billing service required")
	}
	return &service{orders: orderSvc, billing: billingSvc, shop: shop}, nil
}

func (s *service) OrderReceipt(ctx context.Context, orderID, actorID int64, actorRole enums.Role) ([]byte, string, error) {
	order, err := s.orders.Get(ctx, orderID, actorID, actorRole)
	if err != nil {
		return nil, "", err
	}

	data := receiptData{
		title:         "Order Receipt",
		invoiceNumber: order.InvoiceNumber,
		issuedAt:      order.CreatedAt.Format("02 Jan 2006 15:04"),
		paymentMethod: order.PaymentMethod.String(),
		total:         order.Total.StringFixed(2),
	}
	if order.PaymentStatus != enums.PaymentStatusPaid {
		data.paymentNote = "Payment pending"
	}
	for _, item := range order.Items {
		data.lines = append(data.lines, receiptLine{
			name:     item.Name,
			quantity: item.Quantity,
			price:    item.PriceAtTime.StringFixed(2),
			total:    item.PriceAtTime.Mul(quantityDecimal(item.Quantity)).StringFixed(2),
		})
	}

	pdf, err := s.render(data)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("%s.pdf", order.InvoiceNumber), nil
}

func (s *service) BillReceipt(ctx context.Context, billID int64) ([]byte, string, error) {
	bill, err := s.billing.Get(ctx, billID)
	if err != nil {
		return nil, "", err
	}

	data := receiptData{
		title:         "Counter Bill",
		invoiceNumber: bill.InvoiceNumber,
		issuedAt:      bill.CreatedAt.Format("02 Jan 2006 15:04"),
		customer:      bill.CustomerName,
		paymentMethod: bill.PaymentMethod.String(),
		total:         bill.TotalAmount.StringFixed(2),
	}
	for _, item := range bill.Items {
		data.lines = append(data.lines, receiptLine{
			name:     item.Name,
			quantity: item.Quantity,
			price:    item.PriceAtTime.StringFixed(2),
			total:    item.PriceAtTime.Mul(quantityDecimal(item.Quantity)).StringFixed(2),
		})
	}

	pdf, err := s.render(data)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("%s.pdf", bill.InvoiceNumber), nil
}

func quantityDecimal(quantity int) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity))
}

func (s *service) render(data receiptData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 8, s.shop.Name, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	if s.shop.Address != "" {
		pdf.CellFormat(0, 5, s.shop.Address, "", 1, "C", false, 0, "")
	}
	if s.shop.Phone != "" {
		pdf.CellFormat(0, 5, fmt.Sprintf("Phone: %s", s.shop.Phone), "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, data.title, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Invoice: %s", data.invoiceNumber), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Date: %s", data.issuedAt), "", 1, "L", false, 0, "")
	if data.customer != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Customer: %s", data.customer), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Payment: %s", data.paymentMethod), "", 1, "L", false, 0, "")
	if data.paymentNote != "" {
		pdf.CellFormat(0, 6, data.paymentNote, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(95, 7, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(33, 7, "Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(33, 7, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, line := range data.lines {
		pdf.CellFormat(95, 7, line.name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", line.quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(33, 7, line.price, "1", 0, "R", false, 0, "")
		pdf.CellFormat(33, 7, line.total, "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(153, 8, "Total (Rs.)", "1", 0, "R", false, 0, "")
	pdf.CellFormat(33, 8, data.total, "1", 1, "R", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 5, "Thank you for shopping with us.", "", 1, "C", false, 0, "")

	var buffer bytes.Buffer
	if err := pdf.Output(&buffer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render receipt")
	}
	return buffer.Bytes(), nil
}
