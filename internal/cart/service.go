package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lmartinelli/tienda-backend/internal/products"
	"github.com/lmartinelli/tienda-backend/pkg/db"
	"github.com/lmartinelli/tienda-backend/pkg/db/models"
	pkgerrors "github.com/lmartinelli/tienda-backend/pkg/errors"
)

// Service defines the cart behavior needed by the controller.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error)
}

type service struct {
	db       *db.Client
	repo     *Repository
	products *products.Repository
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	DB       *db.Client
	Repo     *Repository
	Products *products.Repository
}

// NewService constructs a cart service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	return &service{db: params.DB, repo: params.Repo, products: params.Products}, nil
}

// Get renders the user's cart. A user without a cart row sees an empty cart.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FromModel(userID, nil), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return FromModel(userID, cart), nil
}

// AddItem accumulates quantity for a product already in the cart. The
// accumulated quantity is checked against live stock; on violation nothing
// changes.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error) {
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		productRepo := s.products.WithTx(tx)

		product, err := productRepo.FindByID(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeBusinessRule, "product does not exist")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}
		if !product.IsActive {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "product is no longer available").
				WithDetails(map[string]any{"product_id": product.ID.String()})
		}

		cart, err := repo.FindByUser(ctx, userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
			}
			cart, err = repo.Create(ctx, userID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart")
			}
		}

		requested := req.Quantity
		item, err := repo.FindItem(ctx, cart.ID, req.ProductID)
		switch {
		case err == nil:
			requested += item.Quantity
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = nil
		default:
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
		}

		if requested > product.Stock {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "insufficient stock").
				WithDetails(map[string]any{
					"product_id": product.ID.String(),
					"requested":  requested,
					"available":  product.Stock,
				})
		}

		if item == nil {
			if err := repo.CreateItem(ctx, &models.CartItem{
				CartID:    cart.ID,
				ProductID: req.ProductID,
				Quantity:  requested,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart item")
			}
		} else if err := repo.UpdateItemQuantity(ctx, item.ID, requested); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
		}

		return repo.Touch(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID)
}

// RemoveItem drops a product line. Removing a product that is not in the
// cart is a no-op success; a user without a cart gets NOT_FOUND.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	if _, err := s.repo.DeleteItem(ctx, cart.ID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
	}

	return s.Get(ctx, userID)
}
