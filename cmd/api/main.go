package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/pvsmart/pvsmart-backend/api/routes"
	"github.com/pvsmart/pvsmart-backend/internal/analytics"
	"github.com/pvsmart/pvsmart-backend/internal/audit"
	"github.com/pvsmart/pvsmart-backend/internal/auth"
	"github.com/pvsmart/pvsmart-backend/internal/billing"
	"github.com/pvsmart/pvsmart-backend/internal/checkout"
	"github.com/pvsmart/pvsmart-backend/internal/history"
	"github.com/pvsmart/pvsmart-backend/internal/khata"
	"github.com/pvsmart/pvsmart-backend/internal/orders"
	"github.com/pvsmart/pvsmart-backend/internal/payments"
	"github.com/pvsmart/pvsmart-backend/internal/products"
	"github.com/pvsmart/pvsmart-backend/internal/receipts"
	"github.com/pvsmart/pvsmart-backend/internal/users"
	"github.com/pvsmart/pvsmart-backend/pkg/auth/session"
	"github.com/pvsmart/pvsmart-backend/pkg/config"
	"github.com/pvsmart/pvsmart-backend/pkg/db"
	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
	"github.com/pvsmart/pvsmart-backend/pkg/logger"
	"github.com/pvsmart/pvsmart-backend/pkg/metrics"
	"github.com/pvsmart/pvsmart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if cfg.DB.AutoMigrate {
		if err := dbClient.DB().AutoMigrate(models.All()...); err != nil {
			logg.Error(context.Background(), "failed to auto-migrate schema", err)
			os.Exit(1)
		}
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := multierr.Combine(redisClient.Close(), dbClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing clients", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	orderMetrics := metrics.NewOrderMetrics(prometheus.DefaultRegisterer)

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	productsRepo := products.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)
	billingRepo := billing.NewRepository(gormDB)
	paymentsRepo := payments.NewRepository(gormDB)
	khataRepo := khata.NewRepository(gormDB)
	analyticsRepo := analytics.NewRepository(gormDB)
	historyRepo := history.NewRepository(gormDB)
	auditRepo := audit.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		AuthConfig:     cfg.Auth,
	})
	exitOnErr(logg, "auth service", err)

	productsService, err := products.NewService(productsRepo)
	exitOnErr(logg, "products service", err)

	checkoutService, err := checkout.NewService(productsRepo, ordersRepo, dbClient, orderMetrics)
	exitOnErr(logg, "checkout service", err)

	billingService, err := billing.NewService(billingRepo, productsRepo, dbClient, orderMetrics)
	exitOnErr(logg, "billing service", err)

	ordersService, err := orders.NewService(ordersRepo, dbClient, auditRepo)
	exitOnErr(logg, "orders service", err)

	paymentsService, err := payments.NewService(ordersRepo, paymentsRepo, auditRepo, dbClient, cfg.UPI, orderMetrics)
	exitOnErr(logg, "payments service", err)

	khataService, err := khata.NewService(khataRepo, usersRepo)
	exitOnErr(logg, "khata service", err)

	analyticsService, err := analytics.NewService(analyticsRepo, cfg.Analytics)
	exitOnErr(logg, "analytics service", err)

	historyService, err := history.NewService(historyRepo, productsRepo)
	exitOnErr(logg, "history service", err)

	receiptsService, err := receipts.NewService(ordersService, billingService, cfg.Shop)
	exitOnErr(logg, "receipts service", err)

	svcs := routes.Services{
		Auth:      authService,
		Products:  productsService,
		Checkout:  checkoutService,
		Billing:   billingService,
		Orders:    ordersService,
		Payments:  paymentsService,
		Khata:     khataService,
		Analytics: analyticsService,
		History:   historyService,
		Receipts:  receiptsService,
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, svcs),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func exitOnErr(logg *logger.Logger, what string, err error) {
	if err != nil {
		logg.Error(context.Background(), "failed to create "+what, err)
		os.Exit(1)
	}
}
