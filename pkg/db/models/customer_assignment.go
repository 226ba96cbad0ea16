package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomerAssignment maps a supplier's customer to the sales member covering them.
type CustomerAssignment struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID   uuid.UUID `gorm:"column:supplier_id;type:uuid;not null;uniqueIndex:idx_assignments_supplier_customer"`
	RestaurantID uuid.UUID `gorm:"column:restaurant_id;type:uuid;not null;uniqueIndex:idx_assignments_supplier_customer"`
	SalesUserID  uuid.UUID `gorm:"column:sales_user_id;type:uuid;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
