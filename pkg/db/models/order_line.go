package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLine captures the snapshot of each item within an order.
type OrderLine struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      *uuid.UUID `gorm:"column:product_id;type:uuid"`
	Name           string     `gorm:"column:name;not null"`
	Unit           string     `gorm:"column:unit;not null"`
	UnitPriceCents int        `gorm:"column:unit_price_cents;not null"`
	Qty            int        `gorm:"column:qty;not null"`
	TotalCents     int        `gorm:"column:total_cents;not null"`
	Packed         bool       `gorm:"column:packed;not null;default:false"`
	PackedByUserID *uuid.UUID `gorm:"column:packed_by_user_id;type:uuid"`
	PackedAt       *time.Time `gorm:"column:packed_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
