package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/pvsmart/pvsmart-backend/internal/audit"
	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
	pkgerrors "github.com/pvsmart/pvsmart-backend/pkg/errors"
)

func TestUpdateStatusForwardChain(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	repo.orders[1] = &models.Order{
		ID:                1,
		UserID:            7,
		PaymentStatus:     enums.PaymentStatusPaid,
		FulfillmentStatus: enums.FulfillmentStatusPending,
	}
	auditRepo := &stubAuditRepo{}

	svc := newTestService(t, repo, auditRepo)

	steps := []enums.OrderStatus{
		enums.OrderStatusPreparing,
		enums.OrderStatusReady,
		enums.OrderStatusCompleted,
	}
	for _, step := range steps {
		view, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{OrderID: 1, Status: step, ActorID: 2})
		if err != nil {
			t.Fatalf("UpdateStatus(%s): %v", step, err)
		}
		if view.Status != step {
			t.Fatalf("status = %s, want %s", view.Status, step)
		}
	}
	if len(auditRepo.entries) != len(steps) {
		t.Fatalf("audit entries = %d, want %d", len(auditRepo.entries), len(steps))
	}
}

func TestUpdateStatusRejectsSkips(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	repo.orders[1] = &models.Order{
		ID:                1,
		PaymentStatus:     enums.PaymentStatusPaid,
		FulfillmentStatus: enums.FulfillmentStatusPending,
	}

	svc := newTestService(t, repo, &stubAuditRepo{})

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{OrderID: 1, Status: enums.OrderStatusReady, ActorID: 2})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestUpdateStatusTerminalOrdersAreImmutable(t *testing.T) {
	t.Parallel()

	for _, terminal := range []enums.FulfillmentStatus{
		enums.FulfillmentStatusCompleted,
		enums.FulfillmentStatusCancelled,
	} {
		repo := newStubRepo()
		repo.orders[1] = &models.Order{
			ID:                1,
			PaymentStatus:     enums.PaymentStatusPaid,
			FulfillmentStatus: terminal,
		}

		svc := newTestService(t, repo, &stubAuditRepo{})

		_, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{OrderID: 1, Status: enums.OrderStatusCancelled, ActorID: 2})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("from %s: expected state conflict, got %v", terminal, err)
		}
	}
}

func TestUpdateStatusSameStatusIsNoOp(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	repo.orders[1] = &models.Order{
		ID:                1,
		PaymentStatus:     enums.PaymentStatusPaid,
		FulfillmentStatus: enums.FulfillmentStatusPreparing,
	}
	auditRepo := &stubAuditRepo{}

	svc := newTestService(t, repo, auditRepo)

	view, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{OrderID: 1, Status: enums.OrderStatusPreparing, ActorID: 2})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if view.Status != enums.OrderStatusPreparing {
		t.Fatalf("status = %s", view.Status)
	}
	if len(auditRepo.entries) != 0 {
		t.Fatalf("audit entries = %d, want 0", len(auditRepo.entries))
	}
}

func TestUpdateStatusCancelFromAnyNonTerminal(t *testing.T) {
	t.Parallel()

	for _, from := range []enums.FulfillmentStatus{
		enums.FulfillmentStatusPending,
		enums.FulfillmentStatusPreparing,
		enums.FulfillmentStatusReady,
	} {
		repo := newStubRepo()
		repo.orders[1] = &models.Order{
			ID:                1,
			PaymentStatus:     enums.PaymentStatusPaid,
			FulfillmentStatus: from,
		}

		svc := newTestService(t, repo, &stubAuditRepo{})

		view, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{OrderID: 1, Status: enums.OrderStatusCancelled, ActorID: 2})
		if err != nil {
			t.Fatalf("cancel from %s: %v", from, err)
		}
		if view.FulfillmentStatus != enums.FulfillmentStatusCancelled {
			t.Fatalf("status = %s", view.FulfillmentStatus)
		}
	}
}

func TestUpdateStatusPaymentSubmittedAxis(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	repo.orders[1] = &models.Order{
		ID:                1,
		PaymentStatus:     enums.PaymentStatusPending,
		FulfillmentStatus: enums.FulfillmentStatusPending,
	}
	auditRepo := &stubAuditRepo{}

	svc := newTestService(t, repo, auditRepo)

	view, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{OrderID: 1, Status: enums.OrderStatusPaymentSubmitted, ActorID: 2})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if view.PaymentStatus != enums.PaymentStatusPendingVerification {
		t.Fatalf("payment status = %s", view.PaymentStatus)
	}
	if view.Status != enums.OrderStatusPaymentSubmitted {
		t.Fatalf("projected status = %s", view.Status)
	}

	// repeat is a no-op with no extra audit row
	before := len(auditRepo.entries)
	if _, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{OrderID: 1, Status: enums.OrderStatusPaymentSubmitted, ActorID: 2}); err != nil {
		t.Fatalf("repeat UpdateStatus: %v", err)
	}
	if len(auditRepo.entries) != before {
		t.Fatal("no audit row expected for repeated submission")
	}

	repo.orders[1].PaymentStatus = enums.PaymentStatusPaid
	_, err = svc.UpdateStatus(context.Background(), UpdateStatusInput{OrderID: 1, Status: enums.OrderStatusPaymentSubmitted, ActorID: 2})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	repo.orders[1] = &models.Order{ID: 1, UserID: 7}

	svc := newTestService(t, repo, &stubAuditRepo{})

	if _, err := svc.Get(context.Background(), 1, 7, enums.RoleCustomer); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := svc.Get(context.Background(), 1, 2, enums.RoleOwner); err != nil {
		t.Fatalf("admin read: %v", err)
	}

	_, err := svc.Get(context.Background(), 1, 8, enums.RoleCustomer)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func newTestService(t *testing.T, repo Repository, auditRepo audit.Repository) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, auditRepo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRepo struct {
	orders map[int64]*models.Order
}

func newStubRepo() *stubRepo {
	return &stubRepo{orders: map[int64]*models.Order{}}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	return nil, errors.New("not implemented")
}

func (s *stubRepo) CreateItems(ctx context.Context, items []models.OrderItem) error {
	return errors.New("not implemented")
}

func (s *stubRepo) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubRepo) FindByIDForUpdate(ctx context.Context, id int64) (*models.Order, error) {
	return s.FindByID(ctx, id)
}

func (s *stubRepo) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *stubRepo) ListAll(ctx context.Context, filters ListFilters) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		out = append(out, *order)
	}
	return out, nil
}

func (s *stubRepo) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	return nil, errors.New("not implemented")
}

func (s *stubRepo) UpdateFulfillmentStatus(ctx context.Context, id int64, status enums.FulfillmentStatus) error {
	order, ok := s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.FulfillmentStatus = status
	return nil
}

func (s *stubRepo) UpdatePaymentStatus(ctx context.Context, id int64, status enums.PaymentStatus) error {
	order, ok := s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.PaymentStatus = status
	return nil
}

type stubAuditRepo struct {
	entries []audit.Entry
}

func (s *stubAuditRepo) WithTx(tx *gorm.DB) audit.Repository { return s }

func (s *stubAuditRepo) Record(ctx context.Context, entry audit.Entry) error {
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubAuditRepo) ListForEntity(ctx context.Context, entityType enums.AuditEntityType, entityID int64) ([]models.AuditLog, error) {
	return nil, errors.New("not implemented")
}
