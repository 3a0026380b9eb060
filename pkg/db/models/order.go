package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lmartinelli/tienda-backend/pkg/enums"
	"github.com/lmartinelli/tienda-backend/pkg/types"
)

// Order is an immutable snapshot produced from a cart at checkout. Line
// contents and prices never change after creation; only status moves.
// UserID is nullable so orders survive account deletion.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID          *uuid.UUID        `gorm:"column:user_id;type:uuid;index:idx_orders_user"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'pending';index:idx_orders_status"`
	PaymentMethod   string            `gorm:"column:payment_method;not null"`
	Total           decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	ShippingAddress *types.Address    `gorm:"column:shipping_address;type:jsonb"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
