package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lmartinelli/tienda-backend/internal/products"
	"github.com/lmartinelli/tienda-backend/pkg/db"
	"github.com/lmartinelli/tienda-backend/pkg/db/models"
	pkgerrors "github.com/lmartinelli/tienda-backend/pkg/errors"
)

func setupCartService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
	))

	svc, err := NewService(ServiceParams{
		DB:       db.NewWithConn(conn),
		Repo:     NewRepository(conn),
		Products: products.NewRepository(conn),
	})
	require.NoError(t, err)
	return svc, conn
}

func seedCartProduct(t *testing.T, conn *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()
	category := &models.Category{Name: "cat-" + uuid.NewString()}
	require.NoError(t, conn.Create(category).Error)

	product := &models.Product{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		CategoryID: category.ID,
		IsActive:   true,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	svc, conn := setupCartService(t)
	product := seedCartProduct(t, conn, "mouse", "100.00", 5)
	userID := uuid.New()

	cart, err := svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	cart, err = svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("300.00")), "total %s", cart.Total)
}

func TestAddItemRejectsAccumulatedQuantityOverStock(t *testing.T) {
	svc, conn := setupCartService(t)
	product := seedCartProduct(t, conn, "keyboard", "80.00", 5)
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	_, err = svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: product.ID, Quantity: 3})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeBusinessRule, typed.Code())

	// The cart line is untouched by the rejected add.
	cart, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _ := setupCartService(t)

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{ProductID: uuid.New(), Quantity: 1})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeBusinessRule, typed.Code())
}

func TestAddItemRejectsDeactivatedProduct(t *testing.T) {
	svc, conn := setupCartService(t)
	product := seedCartProduct(t, conn, "walkman", "35.00", 5)
	require.NoError(t, conn.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("is_active", false).Error)

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{ProductID: product.ID, Quantity: 1})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeBusinessRule, typed.Code())
	assert.Contains(t, typed.Message(), "no longer available")
}

func TestGetWithoutCartReturnsEmptyCart(t *testing.T) {
	svc, _ := setupCartService(t)
	userID := uuid.New()

	cart, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, cart.UserID)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total.IsZero())
	assert.Nil(t, cart.UpdatedAt)
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	svc, conn := setupCartService(t)
	product := seedCartProduct(t, conn, "monitor", "250.00", 10)
	other := seedCartProduct(t, conn, "cable", "10.00", 10)
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	cart, err := svc.RemoveItem(context.Background(), userID, product.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// Removing a product that is not in the cart is a no-op success.
	cart, err = svc.RemoveItem(context.Background(), userID, other.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestRemoveItemWithoutCart(t *testing.T) {
	svc, _ := setupCartService(t)

	_, err := svc.RemoveItem(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
