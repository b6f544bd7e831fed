package controllers

import (
	"net/http"

	"github.com/pvsmart/pvsmart-backend/api/responses"
	analyticsvc "github.com/pvsmart/pvsmart-backend/internal/analytics"
	pkgerrors "github.com/pvsmart/pvsmart-backend/pkg/errors"
	"github.com/pvsmart/pvsmart-backend/pkg/logger"
)

// Dashboard serves the owner's daily summary.
func Dashboard(svc analyticsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		view, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
