package models

import (
	"time"

	"github.com/google/uuid"
)

// SupplierAccount represents the canonical tenant model for a wholesale supplier.
type SupplierAccount struct {
	ID                  uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerUserID         uuid.UUID  `gorm:"column:owner_user_id;type:uuid;not null;uniqueIndex"`
	CompanyName         string     `gorm:"column:company_name;not null"`
	Description         *string    `gorm:"column:description"`
	Phone               *string    `gorm:"column:phone"`
	Email               *string    `gorm:"column:email"`
	LogoURL             *string    `gorm:"column:logo_url"`
	MinOrderAmountCents int        `gorm:"column:min_order_amount_cents;not null;default:0"`
	// No gorm default: a zero value here must reach the database as false
	// instead of being swallowed by the column default.
	IsActive            bool       `gorm:"column:is_active;not null"`
	LastActiveAt        *time.Time `gorm:"column:last_active_at"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
