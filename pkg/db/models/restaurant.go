package models

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant represents a gastronome business placing orders.
type Restaurant struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerUserID uuid.UUID `gorm:"column:owner_user_id;type:uuid;not null;uniqueIndex"`
	Name        string    `gorm:"column:name;not null"`
	Address     *string   `gorm:"column:address"`
	Phone       *string   `gorm:"column:phone"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
