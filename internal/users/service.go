package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lmartinelli/tienda-backend/pkg/db"
	"github.com/lmartinelli/tienda-backend/pkg/db/models"
	pkgerrors "github.com/lmartinelli/tienda-backend/pkg/errors"
	"github.com/lmartinelli/tienda-backend/pkg/pagination"
)

// Service defines the account management behavior needed by the controller.
type Service interface {
	List(ctx context.Context, params pagination.Params) (*ListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListResponse carries one page of users plus the cursor for the next page.
type ListResponse struct {
	Users      []UserDTO `json:"users"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

type service struct {
	db   *db.Client
	repo *Repository
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	DB   *db.Client
	Repo *Repository
}

// NewService constructs a users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	return &service{db: params.DB, repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ListResponse, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, cursor, params.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}

	rows, next := pagination.TrimPage(rows, params.Limit, func(u models.User) pagination.Cursor {
		return pagination.Cursor{CreatedAt: u.CreatedAt, ID: u.ID}
	})

	dtos := make([]UserDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}

	return &ListResponse{Users: dtos, NextCursor: next}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return FromModel(user), nil
}

// Delete removes the user together with their open cart. Order history is
// kept for bookkeeping: rows are detached (user_id set null) rather than
// removed, matching the ON DELETE SET NULL on orders.user_id.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Where("user_id = ?", id).First(&cart).Error
		switch {
		case err == nil:
			if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart items")
			}
			if err := tx.Delete(&cart).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// nothing to cascade
		default:
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}

		if err := tx.Model(&models.Order{}).Where("user_id = ?", id).Update("user_id", nil).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "detach orders")
		}

		if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
		}
		return nil
	})
}
