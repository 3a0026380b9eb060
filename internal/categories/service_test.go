package categories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lmartinelli/tienda-backend/pkg/db"
	"github.com/lmartinelli/tienda-backend/pkg/db/models"
	pkgerrors "github.com/lmartinelli/tienda-backend/pkg/errors"
)

func setupCategoriesService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Category{}, &models.Product{}))

	svc, err := NewService(ServiceParams{
		DB:   db.NewWithConn(conn),
		Repo: NewRepository(conn),
	})
	require.NoError(t, err)
	return svc, conn
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	svc, _ := setupCategoriesService(t)

	_, err := svc.Create(context.Background(), CreateCategoryRequest{Name: "audio"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateCategoryRequest{Name: "audio"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestListCategoriesSortedByName(t *testing.T) {
	svc, _ := setupCategoriesService(t)

	for _, name := range []string{"video", "audio", "gaming"} {
		_, err := svc.Create(context.Background(), CreateCategoryRequest{Name: name})
		require.NoError(t, err)
	}

	rows, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "audio", rows[0].Name)
	assert.Equal(t, "gaming", rows[1].Name)
	assert.Equal(t, "video", rows[2].Name)
}

func TestDeleteCategoryWithProductsIsRefused(t *testing.T) {
	svc, conn := setupCategoriesService(t)

	created, err := svc.Create(context.Background(), CreateCategoryRequest{Name: "peripherals"})
	require.NoError(t, err)

	require.NoError(t, conn.Create(&models.Product{
		Name:       "mouse",
		Price:      decimal.RequireFromString("19.90"),
		Stock:      3,
		CategoryID: created.ID,
		IsActive:   true,
	}).Error)

	err = svc.Delete(context.Background(), created.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	// Still listed after the refused delete.
	rows, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	// Once the product is gone the delete goes through.
	require.NoError(t, conn.Where("category_id = ?", created.ID).Delete(&models.Product{}).Error)
	require.NoError(t, svc.Delete(context.Background(), created.ID))

	rows, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDeleteUnknownCategory(t *testing.T) {
	svc, _ := setupCategoriesService(t)

	err := svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
