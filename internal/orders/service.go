package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pvsmart/pvsmart-backend/internal/audit"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
	pkgerrors "github.com/pvsmart/pvsmart-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order read and lifecycle operations.
type Service interface {
	Get(ctx context.Context, orderID, actorID int64, actorRole enums.Role) (*OrderView, error)
	ListForUser(ctx context.Context, userID int64) ([]OrderView, error)
	ListAll(ctx context.Context, filters ListFilters) ([]OrderView, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*OrderView, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	audit audit.Repository
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, auditRepo audit.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if auditRepo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	return &service{repo: repo, tx: tx, audit: auditRepo}, nil
}

func (s *service) Get(ctx context.Context, orderID, actorID int64, actorRole enums.Role) (*OrderView, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if actorRole != enums.RoleOwner && order.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
	}
	view := NewOrderView(*order)
	return &view, nil
}

func (s *service) ListForUser(ctx context.Context, userID int64) ([]OrderView, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return NewOrderViews(rows), nil
}

func (s *service) ListAll(ctx context.Context, filters ListFilters) ([]OrderView, error) {
	rows, err := s.repo.ListAll(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return NewOrderViews(rows), nil
}

// UpdateStatus applies an owner-driven change of the combined status enum.
// PAYMENT_SUBMITTED maps onto the payment axis; every other value moves the
// fulfillment axis under the forward-only transition rules.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*OrderView, error) {
	if input.OrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var updated *OrderView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		oldStatus := order.Status()

		if input.Status == enums.OrderStatusPaymentSubmitted {
			switch order.PaymentStatus {
			case enums.PaymentStatusPendingVerification:
				// already submitted, nothing to do
			case enums.PaymentStatusPaid:
				return pkgerrors.New(pkgerrors.CodeStateConflict, "payment already verified")
			default:
				if err := repo.UpdatePaymentStatus(ctx, order.ID, enums.PaymentStatusPendingVerification); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
				}
				order.PaymentStatus = enums.PaymentStatusPendingVerification
			}
		} else {
			target := enums.FulfillmentStatus(input.Status)
			// Terminal orders reject every update, including re-setting the
			// terminal status itself; the no-op shortcut is for live orders.
			if order.FulfillmentStatus.IsTerminal() {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "order is in a terminal state").
					WithDetails(map[string]any{
						"from": order.FulfillmentStatus,
						"to":   target,
					})
			}
			if order.FulfillmentStatus != target {
				if !canTransition(order.FulfillmentStatus, target) {
					return pkgerrors.New(pkgerrors.CodeStateConflict, "status transition disallowed").
						WithDetails(map[string]any{
							"from": order.FulfillmentStatus,
							"to":   target,
						})
				}
				if err := repo.UpdateFulfillmentStatus(ctx, order.ID, target); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update fulfillment status")
				}
				order.FulfillmentStatus = target
			}
		}

		if newStatus := order.Status(); newStatus != oldStatus {
			details := statusChangeDetails(oldStatus, newStatus)
			entry := audit.Entry{
				ActorID:    input.ActorID,
				Action:     enums.AuditActionStatusChanged,
				EntityType: enums.AuditEntityOrder,
				EntityID:   order.ID,
				Details:    &details,
			}
			if err := s.audit.WithTx(tx).Record(ctx, entry); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record audit entry")
			}
		}

		view := NewOrderView(*order)
		updated = &view
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// canTransition encodes the forward-only fulfillment chain. Cancellation is
// allowed from any non-terminal state; terminal states never move.
func canTransition(from, to enums.FulfillmentStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == enums.FulfillmentStatusCancelled {
		return true
	}
	next := map[enums.FulfillmentStatus]enums.FulfillmentStatus{
		enums.FulfillmentStatusPending:   enums.FulfillmentStatusPreparing,
		enums.FulfillmentStatusPreparing: enums.FulfillmentStatusReady,
		enums.FulfillmentStatusReady:     enums.FulfillmentStatusCompleted,
	}
	return next[from] == to
}

func statusChangeDetails(oldStatus, newStatus enums.OrderStatus) string {
	payload, err := json.Marshal(map[string]string{
		"old_status": oldStatus.String(),
		"new_status": newStatus.String(),
	})
	if err != nil {
		return fmt.Sprintf(`{"old_status":%q,"new_status":%q}`, oldStatus, newStatus)
	}
	return string(payload)
}
