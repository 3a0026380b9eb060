package reports

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/lmartinelli/tienda-backend/pkg/db/models"
	pkgerrors "github.com/lmartinelli/tienda-backend/pkg/errors"
)

const defaultTopProductsLimit = 10

// Service exposes the reporting aggregations. All of them are plain SELECTs
// with no side effects.
type Service interface {
	OrderStats(ctx context.Context) ([]OrderStatusStat, error)
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
	CategoryStats(ctx context.Context) ([]CategoryStat, error)
}

type service struct {
	db *gorm.DB
}

// ServiceParams bundles the dependencies required to build a report service.
type ServiceParams struct {
	DB *gorm.DB
}

// NewService constructs a report service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	return &service{db: params.DB}, nil
}

func (s *service) OrderStats(ctx context.Context) ([]OrderStatusStat, error) {
	var rows []OrderStatusStat
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS order_count, COALESCE(SUM(total), 0) AS total_revenue").
		Group("status").
		Order("order_count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate order stats")
	}
	return rows, nil
}

// TopProducts ranks by average rating, breaking ties with the review count.
// Products without reviews do not appear.
func (s *service) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = defaultTopProductsLimit
	}

	var rows []TopProduct
	err := s.db.WithContext(ctx).Model(&models.Review{}).
		Select("reviews.product_id, products.name AS product_name, products.price, AVG(reviews.rating) AS average_rating, COUNT(*) AS review_count").
		Joins("JOIN products ON products.id = reviews.product_id").
		Group("reviews.product_id, products.name, products.price").
		Order("average_rating DESC, review_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate top products")
	}
	return rows, nil
}

func (s *service) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	var rows []CategoryStat
	err := s.db.WithContext(ctx).Model(&models.Category{}).
		Select("categories.name AS category_name, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.category_id = categories.id").
		Group("categories.id, categories.name").
		Order("product_count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate category stats")
	}
	return rows, nil
}
