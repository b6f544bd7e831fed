package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pvsmart/pvsmart-backend/api/controllers"
	"github.com/pvsmart/pvsmart-backend/api/middleware"
	analyticsvc "github.com/pvsmart/pvsmart-backend/internal/analytics"
	authsvc "github.com/pvsmart/pvsmart-backend/internal/auth"
	billingsvc "github.com/pvsmart/pvsmart-backend/internal/billing"
	checkoutsvc "github.com/pvsmart/pvsmart-backend/internal/checkout"
	historysvc "github.com/pvsmart/pvsmart-backend/internal/history"
	khatasvc "github.com/pvsmart/pvsmart-backend/internal/khata"
	ordersvc "github.com/pvsmart/pvsmart-backend/internal/orders"
	paymentsvc "github.com/pvsmart/pvsmart-backend/internal/payments"
	productsvc "github.com/pvsmart/pvsmart-backend/internal/products"
	receiptsvc "github.com/pvsmart/pvsmart-backend/internal/receipts"
	"github.com/pvsmart/pvsmart-backend/pkg/auth/session"
	"github.com/pvsmart/pvsmart-backend/pkg/config"
	"github.com/pvsmart/pvsmart-backend/pkg/logger"
	"github.com/pvsmart/pvsmart-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth      authsvc.Service
	Products  productsvc.Service
	Checkout  checkoutsvc.Service
	Billing   billingsvc.Service
	Orders    ordersvc.Service
	Payments  paymentsvc.Service
	Khata     khatasvc.Service
	Analytics analyticsvc.Service
	History   historysvc.Service
	Receipts  receiptsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database controllers.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, database, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.Register(svcs.Auth, cfg.Auth, cfg.JWT, logg))
		r.Post("/login", controllers.Login(svcs.Auth, cfg.Auth, cfg.JWT, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).
			Post("/logout", controllers.Logout(svcs.Auth, cfg.Auth, logg))
	})

	// Public storefront reads.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(svcs.Products, logg))
		r.Get("/{id}", controllers.GetProduct(svcs.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Use(middleware.RequireOwner(logg))
			r.Post("/", controllers.CreateProduct(svcs.Products, logg))
			r.Put("/{id}", controllers.UpdateProduct(svcs.Products, logg))
			r.Delete("/{id}", controllers.DeleteProduct(svcs.Products, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.Idempotency(redisClient, cfg.Idempotency.TTL, logg))

		r.Post("/checkout", controllers.Checkout(svcs.Checkout, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(svcs.Orders, logg))
			r.With(middleware.RequireOwner(logg)).
				Put("/", controllers.UpdateOrderStatus(svcs.Orders, logg))
			r.Get("/{id}", controllers.GetOrder(svcs.Orders, logg))
			r.Get("/{id}/receipt", controllers.OrderReceipt(svcs.Receipts, logg))
			r.Post("/{id}/upi", controllers.CreateUPIIntent(svcs.Payments, logg))
			r.Post("/{id}/payment-submitted", controllers.PaymentSubmitted(svcs.Payments, logg))
			r.With(middleware.RequireOwner(logg)).
				Post("/{id}/verify-payment", controllers.VerifyPayment(svcs.Payments, logg))
		})

		r.Route("/billing", func(r chi.Router) {
			r.Use(middleware.RequireOwner(logg))
			r.Post("/", controllers.CreateBill(svcs.Billing, logg))
			r.Get("/history", controllers.BillingHistory(svcs.Billing, logg))
			r.Get("/{id}/receipt", controllers.BillReceipt(svcs.Receipts, logg))
		})

		r.Route("/khata", func(r chi.Router) {
			r.Use(middleware.RequireOwner(logg))
			r.Post("/", controllers.AddKhataEntry(svcs.Khata, logg))
			r.Get("/{userId}", controllers.KhataLedger(svcs.Khata, logg))
		})

		r.With(middleware.RequireOwner(logg)).
			Get("/analytics/dashboard", controllers.Dashboard(svcs.Analytics, logg))

		r.Route("/history", func(r chi.Router) {
			r.Get("/", controllers.RecentlyViewed(svcs.History, logg))
			r.Post("/{productId}", controllers.TrackView(svcs.History, logg))
		})
	})

	return r
}
