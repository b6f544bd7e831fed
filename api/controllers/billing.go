package controllers

import (
	"net/http"

	"github.com/pvsmart/pvsmart-backend/api/middleware"
	"github.com/pvsmart/pvsmart-backend/api/responses"
	"github.com/pvsmart/pvsmart-backend/api/validators"
	billingsvc "github.com/pvsmart/pvsmart-backend/internal/billing"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
	pkgerrors "github.com/pvsmart/pvsmart-backend/pkg/errors"
	"github.com/pvsmart/pvsmart-backend/pkg/logger"
)

// CreateBill records a counter sale from the POS screen. Owner only.
func CreateBill(svc billingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload createBillRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bill, err := svc.CreateBill(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, bill)
	}
}

// BillingHistory lists recent counter bills, newest first. Owner only.
func BillingHistory(svc billingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 100, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bills, err := svc.List(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, bills)
	}
}

type createBillRequest struct {
	CustomerName  string                      `json:"customer_name,omitempty"`
	Items         []billingsvc.BillItemInput  `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string                      `json:"payment_method,omitempty"`
}

func (r createBillRequest) toInput(userID int64) (billingsvc.CreateBillInput, error) {
	input := billingsvc.CreateBillInput{
		CustomerName: r.CustomerName,
		Items:        r.Items,
		CreatedByID:  userID,
	}
	if r.PaymentMethod != "" {
		method, err := enums.ParsePaymentMethod(r.PaymentMethod)
		if err != nil {
			return billingsvc.CreateBillInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
		}
		input.PaymentMethod = method
	}
	return input, nil
}
