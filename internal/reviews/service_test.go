package reviews

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lmartinelli/tienda-backend/internal/orders"
	"github.com/lmartinelli/tienda-backend/pkg/db/models"
	"github.com/lmartinelli/tienda-backend/pkg/enums"
	pkgerrors "github.com/lmartinelli/tienda-backend/pkg/errors"
)

func setupReviewsService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	))

	svc, err := NewService(ServiceParams{
		Repo:      NewRepository(conn),
		Purchases: orders.NewRepository(conn),
	})
	require.NoError(t, err)
	return svc, conn
}

func seedBuyer(t *testing.T, conn *gorm.DB, name string, productID uuid.UUID) *models.User {
	t.Helper()
	user := &models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         enums.RoleUser,
	}
	require.NoError(t, conn.Create(user).Error)

	order := &models.Order{
		UserID:        &user.ID,
		Status:        enums.OrderStatusPaid,
		PaymentMethod: "card",
		Total:         decimal.RequireFromString("10.00"),
		Items: []models.OrderItem{
			{
				ProductID:   productID,
				ProductName: "widget",
				UnitPrice:   decimal.RequireFromString("10.00"),
				Quantity:    1,
				Subtotal:    decimal.RequireFromString("10.00"),
			},
		},
	}
	require.NoError(t, conn.Create(order).Error)
	return user
}

func TestCreateReviewRequiresPurchase(t *testing.T) {
	svc, conn := setupReviewsService(t)
	productID := uuid.New()

	stranger := &models.User{Name: "Eve", Email: "eve@example.com", PasswordHash: "x", Role: enums.RoleUser}
	require.NoError(t, conn.Create(stranger).Error)

	_, err := svc.Create(context.Background(), stranger.ID, CreateReviewRequest{ProductID: productID, Rating: 5})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestCreateReviewOncePerUserAndProduct(t *testing.T) {
	svc, conn := setupReviewsService(t)
	productID := uuid.New()
	buyer := seedBuyer(t, conn, "ana", productID)

	comment := "great value"
	review, err := svc.Create(context.Background(), buyer.ID, CreateReviewRequest{
		ProductID: productID,
		Rating:    4,
		Comment:   &comment,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)

	// A second review is rejected even with different content.
	_, err = svc.Create(context.Background(), buyer.ID, CreateReviewRequest{ProductID: productID, Rating: 1})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestCreateReviewRatingBounds(t *testing.T) {
	svc, conn := setupReviewsService(t)
	productID := uuid.New()
	buyer := seedBuyer(t, conn, "bob", productID)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(context.Background(), buyer.ID, CreateReviewRequest{ProductID: productID, Rating: rating})
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestCreateReviewCommentLengthCountsRunes(t *testing.T) {
	svc, conn := setupReviewsService(t)
	productID := uuid.New()
	buyer := seedBuyer(t, conn, "carmen", productID)

	// 500 two-byte runes is exactly the limit and must be accepted.
	comment := strings.Repeat("á", 500)
	review, err := svc.Create(context.Background(), buyer.ID, CreateReviewRequest{
		ProductID: productID,
		Rating:    5,
		Comment:   &comment,
	})
	require.NoError(t, err)
	require.NotNil(t, review.Comment)
	assert.Equal(t, 500, utf8.RuneCountInString(*review.Comment))

	otherProduct := uuid.New()
	other := seedBuyer(t, conn, "diego", otherProduct)
	tooLong := strings.Repeat("á", 501)
	_, err = svc.Create(context.Background(), other.ID, CreateReviewRequest{
		ProductID: otherProduct,
		Rating:    4,
		Comment:   &tooLong,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateReviewPersistsTrimmedComment(t *testing.T) {
	svc, conn := setupReviewsService(t)
	productID := uuid.New()
	buyer := seedBuyer(t, conn, "elena", productID)

	comment := "  solid build  "
	review, err := svc.Create(context.Background(), buyer.ID, CreateReviewRequest{
		ProductID: productID,
		Rating:    4,
		Comment:   &comment,
	})
	require.NoError(t, err)
	require.NotNil(t, review.Comment)
	assert.Equal(t, "solid build", *review.Comment)
}

func TestListByProductNewestFirstWithReviewerName(t *testing.T) {
	svc, conn := setupReviewsService(t)
	productID := uuid.New()

	first := seedBuyer(t, conn, "carla", productID)
	second := seedBuyer(t, conn, "dario", productID)

	_, err := svc.Create(context.Background(), first.ID, CreateReviewRequest{ProductID: productID, Rating: 5})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = svc.Create(context.Background(), second.ID, CreateReviewRequest{ProductID: productID, Rating: 3})
	require.NoError(t, err)

	rows, err := svc.ListByProduct(context.Background(), productID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "dario", rows[0].ReviewerName)
	assert.Equal(t, "carla", rows[1].ReviewerName)

	empty, err := svc.ListByProduct(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}
