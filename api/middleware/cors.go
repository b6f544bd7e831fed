package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// Local dev ports for the storefront and the owner console, plus the
// deployed domains.
var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"https://pvsmart.in",
	"https://admin.pvsmart.in",
}

// CORS returns middleware that applies the API's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
