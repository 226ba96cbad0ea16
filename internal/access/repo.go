package access

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlindenberg/gastlink-backend/pkg/db/models"
	"github.com/mlindenberg/gastlink-backend/pkg/enums"
)

// MemberContext is the normalized join of an accepted team membership with
// its team's kind. One shape, decided here at the data-access boundary.
type MemberContext struct {
	SupplierID uuid.UUID      `json:"supplier_id"`
	TeamID     uuid.UUID      `json:"team_id"`
	TeamKind   enums.TeamKind `json:"team_kind"`
	IsChief    bool           `json:"is_chief"`
}

// Repository exposes the affiliation lookups behind capability resolution.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindSupplierByOwner returns the supplier account owned by the user, or
// gorm.ErrRecordNotFound when the user owns none.
func (r *Repository) FindSupplierByOwner(ctx context.Context, userID uuid.UUID) (*models.SupplierAccount, error) {
	var supplier models.SupplierAccount
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", userID).
		First(&supplier).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

// FindAcceptedMembership returns the user's accepted team membership joined
// with the team kind, or (nil, nil) when the user belongs to no team.
func (r *Repository) FindAcceptedMembership(ctx context.Context, userID uuid.UUID) (*MemberContext, error) {
	var rows []MemberContext
	err := r.db.WithContext(ctx).
		Model(&models.TeamMember{}).
		Select("team_members.supplier_id, team_members.team_id, teams.kind AS team_kind, team_members.is_chief").
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("team_members.user_id = ? AND team_members.invitation_status = ?", userID, enums.InvitationStatusAccepted).
		Order("team_members.created_at").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ListAssignedRestaurantIDs returns the customers assigned to a sales user
// under the given supplier.
func (r *Repository) ListAssignedRestaurantIDs(ctx context.Context, supplierID, salesUserID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.CustomerAssignment{}).
		Where("supplier_id = ? AND sales_user_id = ?", supplierID, salesUserID).
		Pluck("restaurant_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
