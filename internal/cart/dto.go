package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lmartinelli/tienda-backend/pkg/db/models"
)

// AddItemRequest is the payload for adding a product to the caller's cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gte=1"`
}

// ItemDTO is one enriched cart line.
type ItemDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CartDTO is the transport shape for a cart. An absent cart renders as an
// empty one.
type CartDTO struct {
	UserID    uuid.UUID       `json:"user_id"`
	Items     []ItemDTO       `json:"items"`
	Total     decimal.Decimal `json:"total"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

// FromModel builds the enriched cart DTO. Lines whose product was deleted
// since they were added are skipped.
func FromModel(userID uuid.UUID, cart *models.Cart) *CartDTO {
	dto := &CartDTO{
		UserID: userID,
		Items:  []ItemDTO{},
		Total:  decimal.Zero,
	}
	if cart == nil {
		return dto
	}

	updatedAt := cart.UpdatedAt
	dto.UpdatedAt = &updatedAt

	for _, item := range cart.Items {
		if item.Product == nil {
			continue
		}
		subtotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		dto.Items = append(dto.Items, ItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			UnitPrice:   item.Product.Price,
			Quantity:    item.Quantity,
			Subtotal:    subtotal,
		})
		dto.Total = dto.Total.Add(subtotal)
	}
	return dto
}
