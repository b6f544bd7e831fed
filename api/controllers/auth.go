package controllers

import (
	"net/http"

	"github.com/pvsmart/pvsmart-backend/api/middleware"
	"github.com/pvsmart/pvsmart-backend/api/responses"
	"github.com/pvsmart/pvsmart-backend/api/validators"
	authsvc "github.com/pvsmart/pvsmart-backend/internal/auth"
	"github.com/pvsmart/pvsmart-backend/pkg/config"
	pkgerrors "github.com/pvsmart/pvsmart-backend/pkg/errors"
	"github.com/pvsmart/pvsmart-backend/pkg/logger"
)

// Register creates an account and signs the caller in.
func Register(svc authsvc.Service, authCfg config.AuthConfig, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload authsvc.RegisterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setTokenCookie(w, result.AccessToken, authCfg, jwtCfg)
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// Login verifies credentials and returns a signed token.
func Login(svc authsvc.Service, authCfg config.AuthConfig, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload authsvc.LoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setTokenCookie(w, result.AccessToken, authCfg, jwtCfg)
		responses.WriteSuccess(w, result)
	}
}

// Logout revokes the caller's session and clears the auth cookie.
func Logout(svc authsvc.Service, authCfg config.AuthConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		accessID := middleware.SessionIDFromContext(r.Context())
		if err := svc.Logout(r.Context(), accessID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clearTokenCookie(w, authCfg)
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

func setTokenCookie(w http.ResponseWriter, token string, authCfg config.AuthConfig, jwtCfg config.JWTConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(jwtCfg.Expiration().Seconds()),
		HttpOnly: true,
		Secure:   authCfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearTokenCookie(w http.ResponseWriter, authCfg config.AuthConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   authCfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
