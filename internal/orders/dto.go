package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lmartinelli/tienda-backend/pkg/db/models"
	"github.com/lmartinelli/tienda-backend/pkg/enums"
	"github.com/lmartinelli/tienda-backend/pkg/types"
)

// UpdateStatusRequest is the admin payload for moving an order through its
// lifecycle.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ItemDTO is one immutable order line.
type ItemDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderDTO is the transport shape for an order.
type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"user_id"`
	Status          enums.OrderStatus `json:"status"`
	PaymentMethod   string            `json:"payment_method"`
	Total           decimal.Decimal   `json:"total"`
	ShippingAddress *types.Address    `json:"shipping_address,omitempty"`
	Items           []ItemDTO         `json:"items"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// FromModel maps an order with its preloaded items.
func FromModel(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:              order.ID,
		Status:          order.Status,
		PaymentMethod:   order.PaymentMethod,
		Total:           order.Total,
		ShippingAddress: order.ShippingAddress,
		Items:           make([]ItemDTO, 0, len(order.Items)),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	// Detached orders (owner account deleted) report the zero user id.
	if order.UserID != nil {
		dto.UserID = *order.UserID
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, ItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		})
	}
	return dto
}

// FromModels maps a page of orders.
func FromModels(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
