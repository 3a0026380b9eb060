package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lmartinelli/tienda-backend/internal/cart"
	"github.com/lmartinelli/tienda-backend/internal/orders"
	"github.com/lmartinelli/tienda-backend/internal/products"
	"github.com/lmartinelli/tienda-backend/internal/users"
	"github.com/lmartinelli/tienda-backend/pkg/db"
	"github.com/lmartinelli/tienda-backend/pkg/db/models"
	"github.com/lmartinelli/tienda-backend/pkg/enums"
	pkgerrors "github.com/lmartinelli/tienda-backend/pkg/errors"
	"github.com/lmartinelli/tienda-backend/pkg/logger"
)

// CheckoutRequest is the payload for converting a cart into an order.
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// Service converts a user's cart into an immutable order.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*orders.OrderDTO, error)
}

type service struct {
	db       *db.Client
	carts    *cart.Repository
	products *products.Repository
	orders   *orders.Repository
	users    *users.Repository
	logg     *logger.Logger
}

// ServiceParams bundles the dependencies required to build a checkout
// service.
type ServiceParams struct {
	DB       *db.Client
	Carts    *cart.Repository
	Products *products.Repository
	Orders   *orders.Repository
	Users    *users.Repository
	Logger   *logger.Logger
}

// NewService constructs a checkout service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	return &service{
		db:       params.DB,
		carts:    params.Carts,
		products: params.Products,
		orders:   params.Orders,
		users:    params.Users,
		logg:     params.Logger,
	}, nil
}

// Checkout snapshots the cart into an order inside one transaction. Stock is
// decremented with a compare-and-decrement per line; if any line lacks stock
// the whole transaction rolls back and neither order nor stock change
// survives.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*orders.OrderDTO, error) {
	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	if paymentMethod == "" {
		return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "payment method is required")
	}

	var orderID uuid.UUID
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.carts.WithTx(tx)
		productRepo := s.products.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)
		userRepo := s.users.WithTx(tx)

		userCart, err := cartRepo.FindByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeBusinessRule, "cart is empty")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}
		if len(userCart.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "cart is empty")
		}

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load purchaser")
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(userCart.Items))
		for position, line := range userCart.Items {
			if line.Product == nil {
				return pkgerrors.New(pkgerrors.CodeBusinessRule, "cart references a product that no longer exists")
			}

			ok, err := productRepo.DecrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeBusinessRule,
					fmt.Sprintf("insufficient stock for %s", line.Product.Name)).
					WithDetails(map[string]any{
						"product_id": line.ProductID.String(),
						"requested":  line.Quantity,
					})
			}

			subtotal := line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			items = append(items, models.OrderItem{
				ProductID:   line.ProductID,
				ProductName: line.Product.Name,
				UnitPrice:   line.Product.Price,
				Quantity:    line.Quantity,
				Subtotal:    subtotal,
				Position:    position,
			})
			total = total.Add(subtotal)
		}

		order := &models.Order{
			UserID:          &userID,
			Status:          enums.OrderStatusPaid,
			PaymentMethod:   paymentMethod,
			Total:           total,
			ShippingAddress: user.Address,
			Items:           items,
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}
		orderID = order.ID

		if err := cartRepo.Delete(ctx, userCart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id": orderID.String(),
			"user_id":  userID.String(),
		})
		s.logg.Info(logCtx, "checkout.complete")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load created order")
	}
	return orders.FromModel(order), nil
}
