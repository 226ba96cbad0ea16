package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mlindenberg/gastlink-backend/pkg/enums"
)

// Order represents a restaurant's order against a single supplier.
type Order struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID        uuid.UUID           `gorm:"column:supplier_id;type:uuid;not null;index"`
	RestaurantID      uuid.UUID           `gorm:"column:restaurant_id;type:uuid;not null;index"`
	PlacedByUserID    uuid.UUID           `gorm:"column:placed_by_user_id;type:uuid;not null"`
	Status            enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'pending'"`
	PaymentMethod     enums.PaymentMethod `gorm:"column:payment_method;type:payment_method;not null;default:'invoice'"`
	TotalCents        int                 `gorm:"column:total_cents;not null"`
	OrderNumber       int64               `gorm:"column:order_number;not null;default:nextval('order_number_seq')"`
	Notes             *string             `gorm:"column:notes"`
	StripeIntentID    *string             `gorm:"column:stripe_intent_id"`
	ConfirmedAt       *time.Time          `gorm:"column:confirmed_at"`
	ShippedAt         *time.Time          `gorm:"column:shipped_at"`
	DeliveredAt       *time.Time          `gorm:"column:delivered_at"`
	CancelledAt       *time.Time          `gorm:"column:cancelled_at"`
	CancelledByUserID *uuid.UUID          `gorm:"column:cancelled_by_user_id;type:uuid"`
	Lines             []OrderLine         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
