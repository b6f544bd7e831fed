package controllers

import (
	"net/http"

	"github.com/pvsmart/pvsmart-backend/api/middleware"
	"github.com/pvsmart/pvsmart-backend/api/responses"
	"github.com/pvsmart/pvsmart-backend/api/validators"
	checkoutsvc "github.com/pvsmart/pvsmart-backend/internal/checkout"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
	pkgerrors "github.com/pvsmart/pvsmart-backend/pkg/errors"
	"github.com/pvsmart/pvsmart-backend/pkg/logger"
)

// Checkout places an online order for the authenticated customer.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

type checkoutRequest struct {
	Items         []checkoutsvc.Item `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string             `json:"payment_method,omitempty"`
}

func (r checkoutRequest) toInput(userID int64) (checkoutsvc.Input, error) {
	input := checkoutsvc.Input{
		UserID: userID,
		Items:  r.Items,
	}
	if r.PaymentMethod != "" {
		method, err := enums.ParsePaymentMethod(r.PaymentMethod)
		if err != nil {
			return checkoutsvc.Input{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
		}
		input.PaymentMethod = method
	}
	return input, nil
}
