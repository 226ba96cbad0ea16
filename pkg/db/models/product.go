package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a supplier catalog listing.
type Product struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID     uuid.UUID `gorm:"column:supplier_id;type:uuid;not null;index"`
	SKU            string    `gorm:"column:sku;not null"`
	Name           string    `gorm:"column:name;not null"`
	Description    *string   `gorm:"column:description"`
	Unit           string    `gorm:"column:unit;not null"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	ImageURL       *string   `gorm:"column:image_url"`
	// No gorm default: a zero value here must reach the database as false
	// instead of being swallowed by the column default.
	IsAvailable    bool      `gorm:"column:is_available;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
