package orders

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pvsmart/pvsmart-backend/pkg/db/models"
	"github.com/pvsmart/pvsmart-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Order{}, &models.OrderItem{}))
	return conn
}

func seedOrder(t *testing.T, repo Repository, invoice string, userID int64, method enums.PaymentMethod) *models.Order {
	t.Helper()
	order, err := repo.Create(context.Background(), &models.Order{
		InvoiceNumber:     invoice,
		UserID:            userID,
		Total:             decimal.NewFromInt(100),
		PaymentMethod:     method,
		PaymentStatus:     enums.PaymentStatusPending,
		FulfillmentStatus: enums.FulfillmentStatusPending,
	})
	require.NoError(t, err)
	return order
}

func TestRepositoryCreatePersistsItems(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupOrdersTestDB(t))
	order := seedOrder(t, repo, "ORD-1001", 1, enums.PaymentMethodUPI)

	require.NoError(t, repo.CreateItems(context.Background(), []models.OrderItem{
		{OrderID: order.ID, ProductID: 10, Name: "Rice 1kg", PriceAtTime: decimal.NewFromInt(60), Quantity: 1},
		{OrderID: order.ID, ProductID: 11, Name: "Dal 500g", PriceAtTime: decimal.NewFromInt(40), Quantity: 1},
	}))

	got, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, "ORD-1001", got.InvoiceNumber)
}

func TestRepositoryRejectsDuplicateInvoice(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupOrdersTestDB(t))
	seedOrder(t, repo, "ORD-1002", 1, enums.PaymentMethodCash)

	_, err := repo.Create(context.Background(), &models.Order{
		InvoiceNumber:     "ORD-1002",
		UserID:            2,
		Total:             decimal.NewFromInt(50),
		PaymentMethod:     enums.PaymentMethodCash,
		PaymentStatus:     enums.PaymentStatusPending,
		FulfillmentStatus: enums.FulfillmentStatusPending,
	})
	require.Error(t, err)
}

func TestRepositoryListByUserScopesRows(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupOrdersTestDB(t))
	seedOrder(t, repo, "ORD-2001", 1, enums.PaymentMethodUPI)
	seedOrder(t, repo, "ORD-2002", 2, enums.PaymentMethodCash)

	mine, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "ORD-2001", mine[0].InvoiceNumber)
}

func TestRepositoryListAllFiltersByStatusAxes(t *testing.T) {
	t.Parallel()
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	pending := seedOrder(t, repo, "ORD-3001", 1, enums.PaymentMethodUPI)
	submitted := seedOrder(t, repo, "ORD-3002", 1, enums.PaymentMethodUPI)
	require.NoError(t, repo.UpdatePaymentStatus(context.Background(), submitted.ID, enums.PaymentStatusPendingVerification))
	ready := seedOrder(t, repo, "ORD-3003", 2, enums.PaymentMethodCash)
	require.NoError(t, repo.UpdateFulfillmentStatus(context.Background(), ready.ID, enums.FulfillmentStatusReady))

	byFulfillment, err := repo.ListAll(context.Background(), ListFilters{Status: enums.OrderStatusReady})
	require.NoError(t, err)
	require.Len(t, byFulfillment, 1)
	assert.Equal(t, ready.ID, byFulfillment[0].ID)

	bySubmitted, err := repo.ListAll(context.Background(), ListFilters{Status: enums.OrderStatusPaymentSubmitted})
	require.NoError(t, err)
	require.Len(t, bySubmitted, 1)
	assert.Equal(t, submitted.ID, bySubmitted[0].ID)

	byMethod, err := repo.ListAll(context.Background(), ListFilters{PaymentMethod: enums.PaymentMethodUPI})
	require.NoError(t, err)
	assert.Len(t, byMethod, 2)

	all, err := repo.ListAll(context.Background(), ListFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	_ = pending
}

func TestRepositoryStatusUpdatesProjectCombinedEnum(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupOrdersTestDB(t))
	order := seedOrder(t, repo, "ORD-4001", 1, enums.PaymentMethodUPI)

	require.NoError(t, repo.UpdatePaymentStatus(context.Background(), order.ID, enums.PaymentStatusPendingVerification))
	got, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaymentSubmitted, got.Status())

	require.NoError(t, repo.UpdatePaymentStatus(context.Background(), order.ID, enums.PaymentStatusPaid))
	require.NoError(t, repo.UpdateFulfillmentStatus(context.Background(), order.ID, enums.FulfillmentStatusCompleted))
	got, err = repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, got.Status())
}
