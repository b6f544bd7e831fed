package khata

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
	pkgerrors "github.com/pvsmart/pvsmart-backend/pkg/errors"
)

func TestLedgerComputesBalance(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	userRepo := &stubUserFinder{users: map[int64]*models.User{7: {ID: 7, Name: "Ravi"}}}

	svc, err := NewService(repo, userRepo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	ctx := context.Background()
	for _, input := range []AddEntryInput{
		{UserID: 7, Type: enums.KhataEntryTypeDebit, Amount: decimal.NewFromFloat(500), Note: "groceries", CreatedByID: 1},
		{UserID: 7, Type: enums.KhataEntryTypeDebit, Amount: decimal.NewFromFloat(250), CreatedByID: 1},
		{UserID: 7, Type: enums.KhataEntryTypeCredit, Amount: decimal.NewFromFloat(300), Note: "part payment", CreatedByID: 1},
	} {
		if _, err := svc.AddEntry(ctx, input); err != nil {
			t.Fatalf("AddEntry: %v", err)
		}
	}

	ledger, err := svc.Ledger(ctx, 7)
	if err != nil {
		t.Fatalf("Ledger: %v", err)
	}
	if !ledger.Balance.Equal(decimal.NewFromFloat(450)) {
		t.Fatalf("balance = %s, want 450", ledger.Balance)
	}
	if len(ledger.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(ledger.Entries))
	}
}

func TestAddEntryValidation(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	userRepo := &stubUserFinder{users: map[int64]*models.User{7: {ID: 7}}}

	svc, err := NewService(repo, userRepo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	cases := []struct {
		name  string
		input AddEntryInput
		code  pkgerrors.Code
	}{
		{
			name:  "zero amount",
			input: AddEntryInput{UserID: 7, Type: enums.KhataEntryTypeDebit, CreatedByID: 1},
			code:  pkgerrors.CodeValidation,
		},
		{
			name:  "negative amount",
			input: AddEntryInput{UserID: 7, Type: enums.KhataEntryTypeDebit, Amount: decimal.NewFromFloat(-10), CreatedByID: 1},
			code:  pkgerrors.CodeValidation,
		},
		{
			name:  "bad type",
			input: AddEntryInput{UserID: 7, Type: "LOAN", Amount: decimal.NewFromFloat(10), CreatedByID: 1},
			code:  pkgerrors.CodeValidation,
		},
		{
			name:  "unknown customer",
			input: AddEntryInput{UserID: 99, Type: enums.KhataEntryTypeDebit, Amount: decimal.NewFromFloat(10), CreatedByID: 1},
			code:  pkgerrors.CodeNotFound,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.AddEntry(context.Background(), tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestLedgerEmptyForNewCustomer(t *testing.T) {
	t.Parallel()

	svc, err := NewService(newStubRepo(), &stubUserFinder{users: map[int64]*models.User{}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	ledger, err := svc.Ledger(context.Background(), 5)
	if err != nil {
		t.Fatalf("Ledger: %v", err)
	}
	if !ledger.Balance.IsZero() {
		t.Fatalf("balance = %s, want 0", ledger.Balance)
	}
	if len(ledger.Entries) != 0 {
		t.Fatalf("entries = %d, want 0", len(ledger.Entries))
	}
}

type stubRepo struct {
	entries []models.KhataEntry
	nextID  int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{nextID: 1}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, entry *models.KhataEntry) (*models.KhataEntry, error) {
	entry.ID = s.nextID
	s.nextID++
	entry.CreatedAt = time.Now()
	s.entries = append(s.entries, *entry)
	return entry, nil
}

func (s *stubRepo) ListForUser(ctx context.Context, userID int64) ([]models.KhataEntry, error) {
	var out []models.KhataEntry
	for _, entry := range s.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type stubUserFinder struct {
	users map[int64]*models.User
}

func (s *stubUserFinder) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}
