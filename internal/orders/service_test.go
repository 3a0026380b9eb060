package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lmartinelli/tienda-backend/pkg/db/models"
	"github.com/lmartinelli/tienda-backend/pkg/enums"
	pkgerrors "github.com/lmartinelli/tienda-backend/pkg/errors"
)

func setupOrdersService(t *testing.T) (Service, *Repository, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Order{}, &models.OrderItem{}))

	repo := NewRepository(conn)
	svc, err := NewService(ServiceParams{Repo: repo})
	require.NoError(t, err)
	return svc, repo, conn
}

func seedOrder(t *testing.T, conn *gorm.DB, userID uuid.UUID, status enums.OrderStatus) *models.Order {
	t.Helper()
	order := &models.Order{
		UserID:        &userID,
		Status:        status,
		PaymentMethod: "card",
		Total:         decimal.RequireFromString("100.00"),
		Items: []models.OrderItem{
			{
				ProductID:   uuid.New(),
				ProductName: "mouse",
				UnitPrice:   decimal.RequireFromString("100.00"),
				Quantity:    1,
				Subtotal:    decimal.RequireFromString("100.00"),
				Position:    0,
			},
		},
	}
	require.NoError(t, conn.Create(order).Error)
	time.Sleep(time.Millisecond)
	return order
}

func TestListByUserNewestFirst(t *testing.T) {
	svc, _, conn := setupOrdersService(t)
	userID := uuid.New()

	first := seedOrder(t, conn, userID, enums.OrderStatusPaid)
	second := seedOrder(t, conn, userID, enums.OrderStatusPaid)
	seedOrder(t, conn, uuid.New(), enums.OrderStatusPaid)

	rows, err := svc.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.ID, rows[0].ID)
	assert.Equal(t, first.ID, rows[1].ID)
	require.Len(t, rows[0].Items, 1)
	assert.Equal(t, "mouse", rows[0].Items[0].ProductName)
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	svc, _, conn := setupOrdersService(t)
	order := seedOrder(t, conn, uuid.New(), enums.OrderStatusPaid)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, UpdateStatusRequest{Status: "shipped"})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, updated.Status)

	// Shipped orders can no longer be cancelled.
	_, err = svc.UpdateStatus(context.Background(), order.ID, UpdateStatusRequest{Status: "cancelled"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	reloaded, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, reloaded.Status)
}

func TestUpdateStatusUnknownValue(t *testing.T) {
	svc, _, conn := setupOrdersService(t)
	order := seedOrder(t, conn, uuid.New(), enums.OrderStatusPending)

	_, err := svc.UpdateStatus(context.Background(), order.ID, UpdateStatusRequest{Status: "refunded"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc, _, _ := setupOrdersService(t)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), UpdateStatusRequest{Status: "paid"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestHasUserPurchasedProduct(t *testing.T) {
	_, repo, conn := setupOrdersService(t)
	userID := uuid.New()
	order := seedOrder(t, conn, userID, enums.OrderStatusPaid)

	purchased, err := repo.HasUserPurchasedProduct(context.Background(), userID, order.Items[0].ProductID)
	require.NoError(t, err)
	assert.True(t, purchased)

	purchased, err = repo.HasUserPurchasedProduct(context.Background(), userID, uuid.New())
	require.NoError(t, err)
	assert.False(t, purchased)

	purchased, err = repo.HasUserPurchasedProduct(context.Background(), uuid.New(), order.Items[0].ProductID)
	require.NoError(t, err)
	assert.False(t, purchased)
}
