package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pvsmart/pvsmart-backend/internal/audit"
	"github.com/pvsmart/pvsmart-backend/internal/orders"
	"github.com/pvsmart/pvsmart-backend/pkg/config"
	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
	pkgerrors "github.com/pvsmart/pvsmart-backend/pkg/errors"
	"github.com/pvsmart/pvsmart-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service drives the UPI payment flow for online orders.
type Service interface {
	CreateIntent(ctx context.Context, orderID, actorID int64, actorRole enums.Role) (*IntentView, error)
	PaymentSubmitted(ctx context.Context, orderID, actorID int64, actorRole enums.Role) error
	VerifyPayment(ctx context.Context, orderID, actorID int64) (*orders.OrderView, error)
}

// IntentView carries the deep links a client opens to pay for an order.
type IntentView struct {
	OrderID       int64           `json:"order_id"`
	TransactionID int64           `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	UPILink       string          `json:"upi_link"`
	GPayLink      string          `json:"gpay_link"`
	PhonePeLink   string          `json:"phonepe_link"`
	PaytmLink     string          `json:"paytm_link"`
}

type service struct {
	orders  orders.Repository
	upi     Repository
	audit   audit.Repository
	tx      txRunner
	cfg     config.UPIConfig
	metrics *metrics.OrderMetrics
}

// NewService builds a payments service with the required dependencies.
func NewService(ordersRepo orders.Repository, upiRepo Repository, auditRepo audit.Repository, tx txRunner, cfg config.UPIConfig, m *metrics.OrderMetrics) (Service, error) {
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if upiRepo == nil {
		return nil, fmt.Errorf("upi repository required")
	}
	if auditRepo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if cfg.VPA == "" {
		return nil, fmt.Errorf("merchant VPA required")
	}
	return &service{
		orders:  ordersRepo,
		upi:     upiRepo,
		audit:   auditRepo,
		tx:      tx,
		cfg:     cfg,
		metrics: m,
	}, nil
}

// CreateIntent opens a PENDING transaction for the order amount and returns
// app deep links. The amount is read from the order row, never the client.
func (s *service) CreateIntent(ctx context.Context, orderID, actorID int64, actorRole enums.Role) (*IntentView, error) {
	order, err := s.loadOwnedOrder(ctx, orderID, actorID, actorRole)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != enums.PaymentMethodUPI {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order is not payable over UPI")
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment already verified")
	}

	txn, err := s.upi.Create(ctx, &models.UPITransaction{
		OrderID: order.ID,
		UPIID:   s.cfg.VPA,
		Amount:  order.Total,
		Status:  enums.UPITransactionStatusPending,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create upi transaction")
	}

	query := intentQuery(s.cfg, order)
	return &IntentView{
		OrderID:       order.ID,
		TransactionID: txn.ID,
		Amount:        order.Total,
		UPILink:       "upi://pay?" + query,
		GPayLink:      "tez://upi/pay?" + query,
		PhonePeLink:   "phonepe://pay?" + query,
		PaytmLink:     "paytmmp://pay?" + query,
	}, nil
}

// PaymentSubmitted records the customer's claim that they paid. It moves the
// payment axis to PENDING_VERIFICATION; repeated calls are no-ops.
func (s *service) PaymentSubmitted(ctx context.Context, orderID, actorID int64, actorRole enums.Role) error {
	order, err := s.loadOwnedOrder(ctx, orderID, actorID, actorRole)
	if err != nil {
		return err
	}

	switch order.PaymentStatus {
	case enums.PaymentStatusPendingVerification:
		return nil
	case enums.PaymentStatusPaid:
		return pkgerrors.New(pkgerrors.CodeStateConflict, "payment already verified")
	}

	if err := s.orders.UpdatePaymentStatus(ctx, order.ID, enums.PaymentStatusPendingVerification); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
	}
	return nil
}

// VerifyPayment marks the order PAID in one transaction, flips the pending
// UPI transaction if one exists, and appends an audit entry. Verifying an
// already-PAID order succeeds without writing anything.
func (s *service) VerifyPayment(ctx context.Context, orderID, actorID int64) (*orders.OrderView, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if actorID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var verified *orders.OrderView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)
		order, err := ordersRepo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if order.PaymentStatus == enums.PaymentStatusPaid {
			view := orders.NewOrderView(*order)
			verified = &view
			return nil
		}

		oldStatus := order.Status()
		if err := ordersRepo.UpdatePaymentStatus(ctx, order.ID, enums.PaymentStatusPaid); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
		}
		order.PaymentStatus = enums.PaymentStatusPaid

		upiRepo := s.upi.WithTx(tx)
		txn, err := upiRepo.FindPendingByOrder(ctx, order.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load upi transaction")
		}
		if txn != nil {
			if err := upiRepo.MarkVerified(ctx, txn.ID, actorID, time.Now()); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify upi transaction")
			}
		}

		details := verificationDetails(oldStatus, order.Status())
		entry := audit.Entry{
			ActorID:    actorID,
			Action:     enums.AuditActionPaymentVerified,
			EntityType: enums.AuditEntityOrder,
			EntityID:   order.ID,
			Details:    &details,
		}
		if err := s.audit.WithTx(tx).Record(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record audit entry")
		}

		view := orders.NewOrderView(*order)
		verified = &view
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncPaymentsVerified()
	return verified, nil
}

func (s *service) loadOwnedOrder(ctx context.Context, orderID, actorID int64, actorRole enums.Role) (*models.Order, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if actorID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if actorRole != enums.RoleOwner && order.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
	}
	return order, nil
}

func intentQuery(cfg config.UPIConfig, order *models.Order) string {
	params := url.Values{}
	params.Set("pa", cfg.VPA)
	params.Set("pn", cfg.PayeeName)
	params.Set("am", order.Total.StringFixed(2))
	params.Set("cu", "INR")
	params.Set("tn", fmt.Sprintf("ORD%d", order.ID))
	return params.Encode()
}

func verificationDetails(oldStatus, newStatus enums.OrderStatus) string {
	payload, err := json.Marshal(map[string]string{
		"old_status": oldStatus.String(),
		"new_status": newStatus.String(),
	})
	if err != nil {
		return fmt.Sprintf(`{"old_status":%q,"new_status":%q}`, oldStatus, newStatus)
	}
	return string(payload)
}
