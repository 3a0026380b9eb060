package reviews

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/lmartinelli/tienda-backend/pkg/db"
	"github.com/lmartinelli/tienda-backend/pkg/db/models"
	pkgerrors "github.com/lmartinelli/tienda-backend/pkg/errors"
)

// PurchaseChecker reports whether a user has ever ordered a product. The
// orders package provides the production implementation.
type PurchaseChecker interface {
	HasUserPurchasedProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

// Service defines the review behavior needed by the controller.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error)
}

type service struct {
	repo      *Repository
	purchases PurchaseChecker
}

// ServiceParams bundles the dependencies required to build a review service.
type ServiceParams struct {
	Repo      *Repository
	Purchases PurchaseChecker
}

// NewService constructs a review service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("review repository is required")
	}
	if params.Purchases == nil {
		return nil, fmt.Errorf("purchase checker is required")
	}
	return &service{repo: params.Repo, purchases: params.Purchases}, nil
}

// Create stores a review. Only purchasers may review, and each (user,
// product) pair gets exactly one review regardless of content.
func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if req.Comment != nil {
		trimmed := strings.TrimSpace(*req.Comment)
		if utf8.RuneCountInString(trimmed) > 500 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment must not exceed 500 characters")
		}
		req.Comment = &trimmed
	}

	purchased, err := s.purchases.HasUserPurchasedProduct(ctx, userID, req.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check purchase history")
	}
	if !purchased {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only buyers of this product can review it")
	}

	review := &models.Review{
		ProductID: req.ProductID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		if db.IsUniqueViolation(err, "idx_reviews_product_user") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already reviewed by this user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create review")
	}

	return &ReviewDTO{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}, nil
}

// ListByProduct is public; unknown product IDs simply list as empty.
func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error) {
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}
	out := make([]ReviewDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}
