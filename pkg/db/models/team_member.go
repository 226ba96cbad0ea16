package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mlindenberg/gastlink-backend/pkg/enums"
)

// TeamMember links a user with a supplier team and captures their standing.
type TeamMember struct {
	ID               uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TeamID           uuid.UUID              `gorm:"column:team_id;type:uuid;not null;uniqueIndex:idx_team_members_team_user"`
	UserID           uuid.UUID              `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_team_members_team_user"`
	SupplierID       uuid.UUID              `gorm:"column:supplier_id;type:uuid;not null"`
	IsChief          bool                   `gorm:"column:is_chief;not null;default:false"`
	StaffCode        string                 `gorm:"column:staff_code;not null"`
	InvitationStatus enums.InvitationStatus `gorm:"column:invitation_status;type:invitation_status;not null;default:'pending'"`
	InvitedByUserID  *uuid.UUID             `gorm:"column:invited_by_user_id;type:uuid"`
	AcceptedAt       *time.Time             `gorm:"column:accepted_at"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
