package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pvsmart/pvsmart-backend/api/middleware"
	"github.com/pvsmart/pvsmart-backend/api/responses"
	"github.com/pvsmart/pvsmart-backend/api/validators"
	khatasvc "github.com/pvsmart/pvsmart-backend/internal/khata"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
	pkgerrors "github.com/pvsmart/pvsmart-backend/pkg/errors"
	"github.com/pvsmart/pvsmart-backend/pkg/logger"
)

// AddKhataEntry appends a line to a customer's credit ledger. Owner only.
func AddKhataEntry(svc khatasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "khata service unavailable"))
			return
		}

		var payload addKhataEntryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.AddEntry(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

// KhataLedger returns a customer's entries and computed balance. Owner only.
func KhataLedger(svc khatasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "khata service unavailable"))
			return
		}

		userID, err := pathID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ledger, err := svc.Ledger(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ledger)
	}
}

type addKhataEntryRequest struct {
	UserID    int64  `json:"user_id" validate:"required,gt=0"`
	EntryType string `json:"entry_type" validate:"required"`
	Amount    string `json:"amount" validate:"required"`
	Note      string `json:"note,omitempty"`
}

func (r addKhataEntryRequest) toInput(actorID int64) (khatasvc.AddEntryInput, error) {
	entryType, err := enums.ParseKhataEntryType(r.EntryType)
	if err != nil {
		return khatasvc.AddEntryInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid entry type")
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil {
		return khatasvc.AddEntryInput{}, pkgerrors.New(pkgerrors.CodeValidation, "amount must be numeric")
	}
	return khatasvc.AddEntryInput{
		UserID:      r.UserID,
		Type:        entryType,
		Amount:      amount,
		Note:        r.Note,
		CreatedByID: actorID,
	}, nil
}
