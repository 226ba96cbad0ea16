package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mlindenberg/gastlink-backend/pkg/enums"
)

// Team groups supplier staff by functional area. One team per kind per supplier.
type Team struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID uuid.UUID      `gorm:"column:supplier_id;type:uuid;not null;uniqueIndex:idx_teams_supplier_kind"`
	Kind       enums.TeamKind `gorm:"column:kind;type:team_kind;not null;uniqueIndex:idx_teams_supplier_kind"`
	Name       string         `gorm:"column:name;not null"`
	Members    []TeamMember   `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
