package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lmartinelli/tienda-backend/internal/cart"
	"github.com/lmartinelli/tienda-backend/internal/orders"
	"github.com/lmartinelli/tienda-backend/internal/products"
	"github.com/lmartinelli/tienda-backend/internal/users"
	"github.com/lmartinelli/tienda-backend/pkg/db"
	"github.com/lmartinelli/tienda-backend/pkg/db/models"
	"github.com/lmartinelli/tienda-backend/pkg/enums"
	pkgerrors "github.com/lmartinelli/tienda-backend/pkg/errors"
	"github.com/lmartinelli/tienda-backend/pkg/types"
)

type checkoutFixture struct {
	svc    Service
	carts  cart.Service
	conn   *gorm.DB
	userID uuid.UUID
}

func setupCheckout(t *testing.T) *checkoutFixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	user := &models.User{
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: "x",
		Role:         enums.RoleUser,
		Address: &types.Address{
			Street:     "Calle Mayor 1",
			City:       "Madrid",
			State:      "Madrid",
			PostalCode: "28001",
			Country:    "ES",
		},
	}
	require.NoError(t, conn.Create(user).Error)

	client := db.NewWithConn(conn)
	cartRepo := cart.NewRepository(conn)
	productRepo := products.NewRepository(conn)

	cartSvc, err := cart.NewService(cart.ServiceParams{
		DB:       client,
		Repo:     cartRepo,
		Products: productRepo,
	})
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		DB:       client,
		Carts:    cartRepo,
		Products: productRepo,
		Orders:   orders.NewRepository(conn),
		Users:    users.NewRepository(conn),
	})
	require.NoError(t, err)

	return &checkoutFixture{svc: svc, carts: cartSvc, conn: conn, userID: user.ID}
}

func (f *checkoutFixture) seedProduct(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()
	category := &models.Category{Name: "cat-" + uuid.NewString()}
	require.NoError(t, f.conn.Create(category).Error)

	product := &models.Product{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		CategoryID: category.ID,
		IsActive:   true,
	}
	require.NoError(t, f.conn.Create(product).Error)
	return product
}

func TestCheckoutHappyPath(t *testing.T) {
	f := setupCheckout(t)
	ctx := context.Background()
	product := f.seedProduct(t, "mouse", "100.00", 5)

	_, err := f.carts.AddItem(ctx, f.userID, cart.AddItemRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	// Adding three more would exceed the five in stock.
	_, err = f.carts.AddItem(ctx, f.userID, cart.AddItemRequest{ProductID: product.ID, Quantity: 3})
	require.Error(t, err)

	order, err := f.svc.Checkout(ctx, f.userID, CheckoutRequest{PaymentMethod: "card"})
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPaid, order.Status)
	assert.Equal(t, "card", order.PaymentMethod)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("300.00")), "total %s", order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "mouse", order.Items[0].ProductName)
	assert.Equal(t, 3, order.Items[0].Quantity)
	require.NotNil(t, order.ShippingAddress)
	assert.Equal(t, "Madrid", order.ShippingAddress.City)

	var reloaded models.Product
	require.NoError(t, f.conn.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 2, reloaded.Stock)

	// The cart is gone after checkout.
	emptied, err := f.carts.Get(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, emptied.Items)
}

func TestCheckoutRollsBackOnUnderStockedLine(t *testing.T) {
	f := setupCheckout(t)
	ctx := context.Background()
	plenty := f.seedProduct(t, "cable", "10.00", 50)
	scarce := f.seedProduct(t, "gpu", "900.00", 2)

	_, err := f.carts.AddItem(ctx, f.userID, cart.AddItemRequest{ProductID: plenty.ID, Quantity: 4})
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, f.userID, cart.AddItemRequest{ProductID: scarce.ID, Quantity: 2})
	require.NoError(t, err)

	// Someone else bought the scarce stock after it entered the cart.
	require.NoError(t, f.conn.Model(&models.Product{}).
		Where("id = ?", scarce.ID).Update("stock", 1).Error)

	_, err = f.svc.Checkout(ctx, f.userID, CheckoutRequest{PaymentMethod: "card"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeBusinessRule, typed.Code())
	assert.Contains(t, typed.Message(), "gpu")

	// No partial order and no stock mutation survived the rollback.
	var orderCount int64
	require.NoError(t, f.conn.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	var reloaded models.Product
	require.NoError(t, f.conn.First(&reloaded, "id = ?", plenty.ID).Error)
	assert.Equal(t, 50, reloaded.Stock)

	// The cart is untouched.
	kept, err := f.carts.Get(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, kept.Items, 2)
}

func TestCheckoutRequiresPaymentMethod(t *testing.T) {
	f := setupCheckout(t)

	_, err := f.svc.Checkout(context.Background(), f.userID, CheckoutRequest{PaymentMethod: "  "})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeBusinessRule, typed.Code())
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := setupCheckout(t)

	_, err := f.svc.Checkout(context.Background(), f.userID, CheckoutRequest{PaymentMethod: "card"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeBusinessRule, typed.Code())
	assert.Contains(t, typed.Message(), "empty")
}
