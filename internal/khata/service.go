package khata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
	pkgerrors "github.com/pvsmart/pvsmart-backend/pkg/errors"
)

type userFinder interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// Service manages the informal credit ledger the owner keeps per customer.
type Service interface {
	AddEntry(ctx context.Context, input AddEntryInput) (*EntryView, error)
	Ledger(ctx context.Context, userID int64) (*LedgerView, error)
}

// AddEntryInput captures a new ledger line.
type AddEntryInput struct {
	UserID      int64
	Type        enums.KhataEntryType
	Amount      decimal.Decimal
	Note        string
	CreatedByID int64
}

// EntryView is the wire representation of a ledger line.
type EntryView struct {
	ID        int64                `json:"id"`
	UserID    int64                `json:"user_id"`
	Type      enums.KhataEntryType `json:"entry_type"`
	Amount    decimal.Decimal      `json:"amount"`
	Note      *string              `json:"note,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// LedgerView is a customer's full ledger with the computed balance. A
// positive balance means the customer owes the shop.
type LedgerView struct {
	UserID  int64           `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
	Entries []EntryView     `json:"entries"`
}

// NewEntryView maps the model onto its wire representation.
func NewEntryView(entry models.KhataEntry) EntryView {
	return EntryView{
		ID:        entry.ID,
		UserID:    entry.UserID,
		Type:      entry.Type,
		Amount:    entry.Amount,
		Note:      entry.Note,
		CreatedAt: entry.CreatedAt,
	}
}

type service struct {
	repo  Repository
	users userFinder
}

// NewService builds a khata service with the required dependencies.
func NewService(repo Repository, userRepo userFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("khata repository required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, users: userRepo}, nil
}

func (s *service) AddEntry(ctx context.Context, input AddEntryInput) (*EntryView, error) {
	if input.CreatedByID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid entry type")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	if _, err := s.users.FindByID(ctx, input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	entry := &models.KhataEntry{
		UserID:      input.UserID,
		Type:        input.Type,
		Amount:      input.Amount,
		CreatedByID: input.CreatedByID,
	}
	if note := strings.TrimSpace(input.Note); note != "" {
		entry.Note = &note
	}

	saved, err := s.repo.Create(ctx, entry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create khata entry")
	}
	view := NewEntryView(*saved)
	return &view, nil
}

// Ledger returns all entries for a customer, newest first, with the balance
// computed as total debits minus total credits.
func (s *service) Ledger(ctx context.Context, userID int64) (*LedgerView, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	entries, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list khata entries")
	}

	balance := decimal.Zero
	views := make([]EntryView, 0, len(entries))
	for _, entry := range entries {
		switch entry.Type {
		case enums.KhataEntryTypeDebit:
			balance = balance.Add(entry.Amount)
		case enums.KhataEntryTypeCredit:
			balance = balance.Sub(entry.Amount)
		}
		views = append(views, NewEntryView(entry))
	}

	return &LedgerView{
		UserID:  userID,
		Balance: balance,
		Entries: views,
	}, nil
}
