package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lmartinelli/tienda-backend/pkg/db/models"
)

// Repository handles review persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// ListByProduct returns a product's reviews newest first, joined with the
// reviewer's name.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]reviewRow, error) {
	var rows []reviewRow
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("reviews.id, reviews.product_id, reviews.user_id, users.name AS user_name, reviews.rating, reviews.comment, reviews.created_at").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.product_id = ?", productID).
		Order("reviews.created_at DESC, reviews.id DESC").
		Scan(&rows).Error
	return rows, err
}
